package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Negibkaya/Mias-sema/internal/domain"
)

// buildPrompt renders the scoring instruction for the language model. The
// response contract (single JSON object, at most top_n candidates per
// role, descending score) is restated in the prompt, but the scorer still
// enforces it during normalization.
func buildPrompt(in domain.ScoreInput) (string, error) {
	rolesJSON, err := json.MarshalIndent(in.Roles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal roles: %w", err)
	}
	candidatesJSON, err := json.MarshalIndent(in.Candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	description := "Not specified"
	if in.Project.Description != nil && strings.TrimSpace(*in.Project.Description) != "" {
		description = *in.Project.Description
	}

	prompt := fmt.Sprintf(`You are an HR AI Assistant for team matching.

PROJECT: %s
DESCRIPTION: %s

ROLES NEEDED:
%s

CANDIDATES:
%s

TASK:
For each role, analyze all candidates and select TOP %d best matches.
Consider:
1. Skill match (name AND level - candidate level should be >= required level)
2. Bio/experience relevance
3. Overall fit for the role

IMPORTANT: Return ONLY valid JSON, no other text!

RESPONSE FORMAT:
{
  "results": [
    {
      "role_name": "<role name>",
      "needed": <count needed>,
      "candidates": [
        {"id": <candidate_id>, "score": <0-100>, "reason": "<short explanation>"},
        ...
      ]
    },
    ...
  ]
}

Each role should have maximum %d candidates, sorted by score descending.
If no good match found for a role, return empty candidates array.
Score meaning: 80-100 = excellent match, 60-79 = good, 40-59 = acceptable, below 40 = poor.`,
		in.Project.Name, description, rolesJSON, candidatesJSON, in.TopN, in.TopN)

	return strings.TrimSpace(prompt), nil
}
