package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptSettingExtractV1    PromptID = "setting_extract_v1"
	PromptCharactersExtractV1 PromptID = "characters_extract_v1"
	PromptWorldRulesExtractV1 PromptID = "world_rules_extract_v1"
	PromptTimelineExtractV1   PromptID = "timeline_extract_v1"
	PromptConsistencyCheckV1  PromptID = "consistency_check_v1"
	PromptDimensionCheckV1    PromptID = "dimension_check_v1"
	PromptPersonaEvalV1       PromptID = "persona_eval_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptSettingExtractV1:
		return "templates/setting_extract_v1.system.txt", "templates/setting_extract_v1.user.txt", nil
	case PromptCharactersExtractV1:
		return "templates/characters_extract_v1.system.txt", "templates/characters_extract_v1.user.txt", nil
	case PromptWorldRulesExtractV1:
		return "templates/world_rules_extract_v1.system.txt", "templates/world_rules_extract_v1.user.txt", nil
	case PromptTimelineExtractV1:
		return "templates/timeline_extract_v1.system.txt", "templates/timeline_extract_v1.user.txt", nil
	case PromptConsistencyCheckV1:
		return "templates/consistency_check_v1.system.txt", "templates/consistency_check_v1.user.txt", nil
	case PromptDimensionCheckV1:
		return "templates/dimension_check_v1.system.txt", "templates/dimension_check_v1.user.txt", nil
	case PromptPersonaEvalV1:
		return "templates/persona_eval_v1.system.txt", "templates/persona_eval_v1.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
