package consistency

import (
	"novel-review-api/internal/application/generation"
	"novel-review-api/internal/domain/entity"
)

func consistencyContract() generation.Contract {
	return generation.Contract{
		Name: "consistency_check",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"continuity", "character", "world_rules"},
			"properties": map[string]any{
				"continuity":  dimensionSchema(),
				"character":   dimensionSchema(),
				"world_rules": dimensionSchema(),
			},
		},
	}
}

func dimensionContract(dim entity.IssueType) generation.Contract {
	return generation.Contract{
		Name:   string(dim) + "_check",
		Schema: dimensionSchema(),
	}
}

func dimensionSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"score", "issues"},
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
			"issues": map[string]any{
				"type":  "array",
				"items": issueSchema(),
			},
		},
	}
}

func issueSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"type", "severity", "description"},
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": []any{"continuity", "character", "world_rules"},
			},
			"severity": map[string]any{
				"type": "string",
				"enum": []any{"critical", "high", "medium", "low"},
			},
			"description":   map[string]any{"type": "string"},
			"evidence":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"suggested_fix": map[string]any{"type": "string"},
			"location":      map[string]any{"type": "string"},
		},
	}
}
