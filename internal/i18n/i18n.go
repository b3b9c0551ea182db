// Package i18n turns dictionary entries into UI translation lookups.
package i18n

import (
	"log/slog"
	"sort"
	"strings"
)

// Entry is a dictionary row as returned by the translations query: the
// label and the path of the concept it names.
type Entry struct {
	Name    string        `json:"name"`
	Concept *EntryConcept `json:"concept"`
}

type EntryConcept struct {
	Path string `json:"path"`
}

// Map is keyed by concept path, e.g. "ui/nav/dashboard".
type Map map[string]string

// FromDictionaries builds a Map. Entries without a concept path are skipped.
// A later entry for the same path wins.
func FromDictionaries(entries []Entry, logger *slog.Logger) Map {
	m := make(Map, len(entries))
	for _, e := range entries {
		if e.Concept == nil || e.Concept.Path == "" {
			logger.Warn("dictionary entry missing concept path", "name", e.Name)
			continue
		}
		m[e.Concept.Path] = e.Name
	}
	return m
}

// T returns the translation for key, else fallback, else key itself.
// An empty translation counts as missing.
func (m Map) T(key, fallback string) string {
	if v := m[key]; v != "" {
		return v
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// TParams is T with every {name} replaced by params[name].
func (m Map) TParams(key string, params map[string]string, fallback string) string {
	text := m.T(key, fallback)
	if len(params) == 0 {
		return text
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Map) WithPrefix(prefix string) Map {
	out := make(Map)
	for k, v := range m {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// Namespace returns a T that prefixes keys with namespace + "/".
func (m Map) Namespace(namespace string) func(key, fallback string) string {
	return func(key, fallback string) string {
		if namespace != "" {
			key = namespace + "/" + key
		}
		return m.T(key, fallback)
	}
}

// Missing lists the keys of required that have no translation, sorted.
func (m Map) Missing(required []string) []string {
	out := make([]string, 0)
	for _, k := range required {
		if !m.Has(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Merge combines maps; later maps override earlier ones.
func Merge(maps ...Map) Map {
	out := make(Map)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
