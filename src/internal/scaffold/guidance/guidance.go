// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package guidance serves MCP development guidance content by topic.
//
// Content is resolved in order: TTL cache, an on-disk override directory for
// operator-customized topics, then the embedded defaults shipped with the
// binary.
package guidance

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

//go:embed topics/*.md
var topicsFS embed.FS

// Manager resolves guidance content for development topics.
//
// Manager is safe for concurrent use by multiple goroutines.
type Manager struct {
	// overrideDir holds operator-provided <topic>.md files that shadow the
	// embedded defaults.
	overrideDir string
	cache       *gocache.Cache
}

// NewManager creates a guidance manager. overrideDir may be empty to serve
// embedded content only.
func NewManager(overrideDir string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Manager{
		overrideDir: overrideDir,
		cache:       gocache.New(ttl, 2*ttl),
	}
}

// NormalizeTopic canonicalizes a topic name: lowercased, dashes and spaces
// become underscores.
func NormalizeTopic(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	topic = strings.ReplaceAll(topic, "-", "_")
	topic = strings.ReplaceAll(topic, " ", "_")
	return topic
}

// Content returns the guidance markdown for a topic. Unknown topics get a
// short fallback message naming the available topics.
func (m *Manager) Content(topic string) string {
	topic = NormalizeTopic(topic)

	if cached, ok := m.cache.Get(topic); ok {
		return cached.(string)
	}

	content := m.resolve(topic)
	m.cache.SetDefault(topic, content)
	return content
}

// topicRe restricts topics to plain identifiers. Topics come straight from
// tool arguments and resource URIs, so anything with path separators or dots
// must never reach the filesystem lookup.
var topicRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// resolve looks up topic content, disk overrides first.
func (m *Manager) resolve(topic string) string {
	if topicRe.MatchString(topic) {
		if m.overrideDir != "" {
			path := filepath.Join(m.overrideDir, topic+".md")
			if data, err := os.ReadFile(path); err == nil {
				return string(data)
			}
		}

		if data, err := topicsFS.ReadFile("topics/" + topic + ".md"); err == nil {
			return string(data)
		}
	}

	return fmt.Sprintf("Guidance for %q is not yet available. Available topics: %s.",
		topic, strings.Join(m.Topics(), ", "))
}

// Topics returns the guidance topics available from the embedded defaults
// and the override directory, sorted and deduplicated.
func (m *Manager) Topics() []string {
	seen := make(map[string]struct{})

	if entries, err := topicsFS.ReadDir("topics"); err == nil {
		for _, entry := range entries {
			seen[strings.TrimSuffix(entry.Name(), ".md")] = struct{}{}
		}
	}
	if m.overrideDir != "" {
		if entries, err := os.ReadDir(m.overrideDir); err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
					seen[strings.TrimSuffix(entry.Name(), ".md")] = struct{}{}
				}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for topic := range seen {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}
