package persona

import "novel-review-api/internal/application/generation"

func evalContract(p Profile) generation.Contract {
	return generation.Contract{
		Name: "persona_eval_" + string(p.Type),
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"metrics", "overall_reaction"},
			"properties": map[string]any{
				"metrics": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"satisfaction", "engagement", "frustration"},
					"properties": map[string]any{
						"satisfaction": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
						"engagement":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
						"frustration":  map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
					},
				},
				"likes":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"dislikes":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"suggestions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"overall_reaction": map[string]any{
					"type": "string",
					"enum": []any{"very_positive", "positive", "neutral", "negative", "very_negative"},
				},
				"sample_comment": map[string]any{"type": "string"},
			},
		},
	}
}
