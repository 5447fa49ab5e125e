// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package template

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed builtin
var builtinFS embed.FS

// loadBuiltin loads the embedded template catalog. These templates ship with
// the binary so generation works before any on-disk catalog exists.
func (m *Manager) loadBuiltin() (map[string]*Template, error) {
	catalog := make(map[string]*Template)

	langs, err := builtinFS.ReadDir("builtin/languages")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}

	for _, lang := range langs {
		if !lang.IsDir() {
			continue
		}
		entries, err := builtinFS.ReadDir("builtin/languages/" + lang.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded language %s: %w", lang.Name(), err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := "builtin/languages/" + lang.Name() + "/" + entry.Name()
			meta := Metadata{
				Name:        entry.Name(),
				Description: fmt.Sprintf("%s template for %s MCP servers", entry.Name(), lang.Name()),
				Language:    lang.Name(),
				Variables:   []string{"server_name", "description"},
			}
			if data, err := builtinFS.ReadFile(dir + "/metadata.json"); err == nil {
				if err := json.Unmarshal(data, &meta); err != nil {
					return nil, fmt.Errorf("failed to parse embedded metadata for %s/%s: %w",
						lang.Name(), entry.Name(), err)
				}
			}
			tpl := &Template{Metadata: meta, builtinDir: dir}
			catalog[tpl.Key()] = tpl
		}
	}
	return catalog, nil
}
