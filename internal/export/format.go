// Package export renders collected profiles for the command line: console tables, JSON and XLSX workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"DevInsights/internal/domain"
)

// WriteJSON writes profiles as an indented JSON array.
func WriteJSON(w io.Writer, profiles []domain.Profile) error {
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(profiles)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func pinnedNames(repos []domain.PinnedRepo) string {
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name)
	}
	return strings.Join(names, ", ")
}

func orgNames(orgs []domain.Organization) string {
	names := make([]string, 0, len(orgs))
	for _, org := range orgs {
		name := org.Name
		if name == "" {
			name = org.URL
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// analysisField flattens one analysis value; the model decides the shape so lists and objects are accepted.
func analysisField(analysis domain.AnalysisResult, key string) string {
	value, ok := analysis[key]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
				continue
			}
			raw, _ := json.Marshal(item)
			parts = append(parts, string(raw))
		}
		return strings.Join(parts, "; ")
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
