package setting

import "novel-review-api/internal/application/generation"

// 说明：schema 以“最小可用”为目标，避免过度约束导致模型输出失败。

func settingModelContract() generation.Contract {
	return generation.Contract{
		Name: "setting_model",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"title", "characters", "world_rules", "timeline", "summary"},
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"genres":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"characters":  map[string]any{"type": "array", "items": characterSchema()},
				"world_rules": map[string]any{"type": "array", "items": worldRuleSchema()},
				"timeline":    map[string]any{"type": "array", "items": timelineEventSchema()},
				"summary":     map[string]any{"type": "string"},
			},
		},
	}
}

func charactersContract() generation.Contract {
	return generation.Contract{
		Name: "characters",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"characters"},
			"properties": map[string]any{
				"characters": map[string]any{"type": "array", "items": characterSchema()},
			},
		},
	}
}

func worldRulesContract() generation.Contract {
	return generation.Contract{
		Name: "world_rules",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"world_rules"},
			"properties": map[string]any{
				"world_rules": map[string]any{"type": "array", "items": worldRuleSchema()},
			},
		},
	}
}

func timelineContract() generation.Contract {
	return generation.Contract{
		Name: "timeline",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"timeline"},
			"properties": map[string]any{
				"timeline": map[string]any{"type": "array", "items": timelineEventSchema()},
			},
		},
	}
}

func characterSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"name", "role"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"role": map[string]any{
				"type": "string",
				"enum": []any{"protagonist", "antagonist", "supporting", "minor"},
			},
			"traits": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"goals":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"relationships": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"character", "kind"},
					"properties": map[string]any{
						"character":   map[string]any{"type": "string"},
						"kind":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
				},
			},
			"speech_pattern":    map[string]any{"type": "string"},
			"forbidden_actions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func worldRuleSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"category", "rule", "importance"},
		"properties": map[string]any{
			"category": map[string]any{
				"type": "string",
				"enum": []any{"magic", "society", "technology", "culture", "physics", "other"},
			},
			"rule": map[string]any{"type": "string"},
			"importance": map[string]any{
				"type": "string",
				"enum": []any{"critical", "high", "medium", "low"},
			},
			"evidence": map[string]any{"type": "string"},
		},
	}
}

func timelineEventSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"timestamp", "event", "importance"},
		"properties": map[string]any{
			"timestamp":           map[string]any{"type": "string"},
			"event":               map[string]any{"type": "string"},
			"involved_characters": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"importance": map[string]any{
				"type": "string",
				"enum": []any{"critical", "high", "medium", "low"},
			},
		},
	}
}
