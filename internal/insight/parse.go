package insight

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"DevInsights/internal/domain"
)

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?")
	trailingFence = regexp.MustCompile("```$")
)

// StripFences removes leading ``` or ```json markers and their trailing ``` from a model reply.
// Text that does not start with a fence is returned unchanged; a stripped result never starts with a fence.
func StripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return text
	}
	for strings.HasPrefix(cleaned, "```") {
		cleaned = leadingFence.ReplaceAllString(cleaned, "")
		cleaned = trailingFence.ReplaceAllString(strings.TrimSpace(cleaned), "")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// ParseAnalysis strips fences and decodes the reply as a JSON object.
// Arrays, scalars and null are rejected.
func ParseAnalysis(text string) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(StripFences(text)), &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("analysis is not a JSON object")
	}
	return result, nil
}
