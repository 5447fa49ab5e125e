// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/forgeworks/mcp-creator/src/internal/helper/gc"
	"github.com/forgeworks/mcp-creator/src/logger"
)

// Metadata describes a scaffolding template.
// It is read from the template directory's metadata.json file; missing files
// yield synthesized defaults so a bare template directory still works.
type Metadata struct {
	// Name: Template identifier within its language (e.g., "basic")
	Name string `json:"name"`
	// Description: Human-readable summary of what the template scaffolds
	Description string `json:"description"`
	// Language: Target language of the generated server (e.g., "python")
	Language string `json:"language"`
	// Features: Capabilities the generated server includes (e.g., "tools", "resources")
	Features []string `json:"features,omitempty"`
	// Variables: Names the template expects in its render context
	Variables []string `json:"variables,omitempty"`
	// MainTemplate: Template file rendered into the server's main source file.
	// Defaults to server.<ext>.tmpl for the template's language.
	MainTemplate string `json:"mainTemplate,omitempty"`
}

// Template is a loaded catalog entry. Disk-backed entries read their files at
// render time; built-in entries serve from the embedded filesystem.
type Template struct {
	Metadata Metadata

	// dir is the on-disk template directory, empty for built-in entries.
	dir string
	// builtinDir is the embedded directory path, empty for disk entries.
	builtinDir string
}

// Key returns the catalog key for a template, in "language:name" form.
func Key(language, name string) string {
	return strings.ToLower(language) + ":" + strings.ToLower(name)
}

// Key returns the template's catalog key.
func (t *Template) Key() string {
	return Key(t.Metadata.Language, t.Metadata.Name)
}

// Builtin reports whether the template is served from the embedded catalog.
func (t *Template) Builtin() bool { return t.dir == "" }

// MainFileExt maps a template language to the file extension of its generated
// main source file. Unknown languages fall back to .txt.
func MainFileExt(language string) string {
	switch strings.ToLower(language) {
	case "python":
		return ".py"
	case "typescript":
		return ".ts"
	case "go":
		return ".go"
	default:
		return ".txt"
	}
}

// mainTemplateName resolves the template file holding the main source file.
func (t *Template) mainTemplateName() string {
	if t.Metadata.MainTemplate != "" {
		return t.Metadata.MainTemplate
	}
	return "server" + MainFileExt(t.Metadata.Language) + ".tmpl"
}

// ManagerConfig carries the tunables for a template [Manager].
type ManagerConfig struct {
	// Root: Template catalog root directory (templates live under Root/languages)
	Root string
	// MaxFileSize: Maximum size in bytes for a single template file; 0 disables the check
	MaxFileSize int64
	// CacheTTL: How long rendered output and file reads stay cached
	CacheTTL time.Duration
	// Logger: Destination for catalog warnings; nil discards them
	Logger logger.Logger
}

// Manager loads, watches, and renders scaffolding templates.
//
// Manager is safe for concurrent use by multiple goroutines.
type Manager struct {
	cfg ManagerConfig

	mu      sync.RWMutex
	catalog map[string]*Template

	cache *gocache.Cache
}

// NewManager creates a template manager and performs the initial catalog load.
// Built-in templates are always present; disk templates with the same key
// override them.
//
// Returns:
//   - A pointer to the loaded Manager
//   - An error if the catalog root cannot be read
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	m := &Manager{
		cfg:   cfg,
		cache: gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload rebuilds the catalog from the embedded templates and the on-disk
// directory, and drops all cached renders.
func (m *Manager) Reload() error {
	catalog, err := m.loadBuiltin()
	if err != nil {
		return fmt.Errorf("failed to load built-in templates: %w", err)
	}

	if err := m.loadDisk(catalog); err != nil {
		return err
	}

	m.mu.Lock()
	m.catalog = catalog
	m.mu.Unlock()
	m.cache.Flush()
	return nil
}

// loadDisk scans Root/languages/<language>/<name> and merges results into
// catalog, overriding built-in entries with matching keys.
func (m *Manager) loadDisk(catalog map[string]*Template) error {
	langRoot := filepath.Join(m.cfg.Root, "languages")
	langs, err := os.ReadDir(langRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read template root %s: %w", langRoot, err)
	}

	for _, lang := range langs {
		if !lang.IsDir() {
			continue
		}
		langDir := filepath.Join(langRoot, lang.Name())
		entries, err := os.ReadDir(langDir)
		if err != nil {
			m.warnf("skipping template language %s: %v", lang.Name(), err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			tpl, err := m.loadDiskTemplate(langDir, lang.Name(), entry.Name())
			if err != nil {
				m.warnf("skipping template %s/%s: %v", lang.Name(), entry.Name(), err)
				continue
			}
			catalog[tpl.Key()] = tpl
		}
	}
	return nil
}

// loadDiskTemplate loads one template directory, validating its metadata.json
// when present and synthesizing defaults when absent.
func (m *Manager) loadDiskTemplate(langDir, language, name string) (*Template, error) {
	dir := filepath.Join(langDir, name)
	meta := Metadata{
		Name:        name,
		Description: fmt.Sprintf("%s template for %s MCP servers", name, language),
		Language:    language,
		Variables:   []string{"server_name", "description"},
	}

	metaPath := filepath.Join(dir, "metadata.json")
	if data, err := os.ReadFile(metaPath); err == nil {
		if err := validateMetadata(data); err != nil {
			return nil, fmt.Errorf("invalid metadata.json: %w", err)
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to parse metadata.json: %w", err)
		}
		if meta.Name == "" {
			meta.Name = name
		}
		if meta.Language == "" {
			meta.Language = language
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read metadata.json: %w", err)
	}

	tpl := &Template{Metadata: meta, dir: dir}
	if err := m.checkSizes(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// checkSizes enforces the per-file size limit on a disk template.
func (m *Manager) checkSizes(t *Template) error {
	if m.cfg.MaxFileSize <= 0 || t.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return fmt.Errorf("failed to read template directory: %w", err)
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !info.IsDir() && info.Size() > m.cfg.MaxFileSize {
			return fmt.Errorf("template file %s exceeds size limit (%d > %d bytes)",
				entry.Name(), info.Size(), m.cfg.MaxFileSize)
		}
	}
	return nil
}

// Get returns the template for a language and name.
func (m *Manager) Get(language, name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tpl, ok := m.catalog[Key(language, name)]
	if !ok {
		return nil, fmt.Errorf("template %s not found", Key(language, name))
	}
	return tpl, nil
}

// List returns the catalog, optionally filtered by language, sorted by key.
func (m *Manager) List(language string) []*Template {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Template
	for _, tpl := range m.catalog {
		if language != "" && !strings.EqualFold(tpl.Metadata.Language, language) {
			continue
		}
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Languages returns the distinct languages present in the catalog, sorted.
func (m *Manager) Languages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tpl := range m.catalog {
		seen[strings.ToLower(tpl.Metadata.Language)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to limit alternative template keys for a language,
// used when a requested template does not exist.
func (m *Manager) Suggest(language string, limit int) []string {
	var keys []string
	for _, tpl := range m.List(language) {
		keys = append(keys, tpl.Key())
		if len(keys) == limit {
			break
		}
	}
	return keys
}

// Render renders the template's main source file with the given variables.
// Rendered output is cached per template and variable set until the catalog
// reloads or the cache TTL expires.
//
// Parameters:
//   - language: Template language (e.g., "python")
//   - name: Template name (e.g., "basic")
//   - vars: Render context made available to the template via {{.var}}
//
// Returns:
//   - The rendered main source file contents
//   - An error if the template is missing or rendering fails
func (m *Manager) Render(language, name string, vars map[string]any) (string, error) {
	tpl, err := m.Get(language, name)
	if err != nil {
		return "", err
	}
	return m.renderFile(tpl, tpl.mainTemplateName(), vars)
}

// renderFile renders one named .tmpl file of a template.
func (m *Manager) renderFile(t *Template, file string, vars map[string]any) (string, error) {
	cacheKey := t.Key() + "/" + file + "?" + varsFingerprint(vars)
	if cached, ok := m.cache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	content, err := m.readTemplateFile(t, file)
	if err != nil {
		return "", err
	}

	parsed, err := template.New(file).Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", file, err)
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if err := parsed.Execute(newBufferWriter(buf), vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", file, err)
	}

	out := string(buf.Bytes())
	m.cache.SetDefault(cacheKey, out)
	return out, nil
}

// readTemplateFile reads a template file from disk or the embedded catalog.
func (m *Manager) readTemplateFile(t *Template, file string) ([]byte, error) {
	if t.dir != "" {
		path := filepath.Join(t.dir, file)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", file, err)
		}
		if m.cfg.MaxFileSize > 0 && info.Size() > m.cfg.MaxFileSize {
			return nil, fmt.Errorf("template file %s exceeds size limit", file)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", file, err)
		}
		return data, nil
	}
	return builtinFS.ReadFile(t.builtinDir + "/" + file)
}

// varsFingerprint produces a stable cache key fragment from a variable map.
func varsFingerprint(vars map[string]any) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v;", k, vars[k])
	}
	return b.String()
}

// warnf logs a catalog warning when a logger is configured.
func (m *Manager) warnf(format string, v ...any) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Printf(format, v...)
	}
}

// bufferWriter adapts a [gc.Buffer] to io.Writer for template execution.
type bufferWriter struct{ buf gc.Buffer }

func newBufferWriter(buf gc.Buffer) *bufferWriter { return &bufferWriter{buf: buf} }

func (w *bufferWriter) Write(p []byte) (int, error) { return w.buf.WriteString(string(p)) }
