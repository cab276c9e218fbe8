package insight

import (
	"encoding/json"
	"fmt"

	"DevInsights/internal/domain"
)

const promptTemplate = `Please analyze the following GitHub profile data and provide a concise summary.
Use plain text values only, with no Markdown formatting (no bold, no italics, no headers, no lists, no code blocks).

For the user whose GitHub profile data is provided below, extract and summarize:

- skills: the primary programming languages, frameworks, libraries and tools they appear proficient in. Prioritize skills evidenced by repository languages or explicit mentions in their profile.
- techStack: the technologies they commonly use together (for example "Node.js, Express, MongoDB, React" for a web developer).
- notableContributions: 2-3 significant repositories or contributions and why each is notable (star count, active development, problem solved). If nothing stands out, describe the overall quality or impact of their public work.
- overallSummary: their professional focus, experience level and potential areas of expertise.

Return a single valid JSON object containing only the requested data. Do not add any text, markdown or conversational filler outside the JSON and do not wrap the output in code fences.

GitHub Profile Data: %s`

// BuildPrompt embeds the indented JSON form of profile into the analysis instructions.
func BuildPrompt(profile domain.Profile) (string, error) {
	raw, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return fmt.Sprintf(promptTemplate, raw), nil
}
