package ai

import (
	openai "github.com/sashabaranov/go-openai"
)

type Model string

const (
	ModelOpenAIGPT4o             Model = "openai_gpt_4o"
	ModelAnthropicClaude35Sonnet Model = "anthropic_claude_3_5_sonnet"

	DefaultModel = ModelOpenAIGPT4o
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type ModelInfo struct {
	ID       Model  `json:"id"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

var catalog = []ModelInfo{
	{ID: ModelOpenAIGPT4o, Provider: ProviderOpenAI, Name: openai.GPT4o},
	{ID: ModelAnthropicClaude35Sonnet, Provider: ProviderAnthropic, Name: "claude-3-5-sonnet-latest"},
}

// SupportedModels returns a copy, default first.
func SupportedModels() []ModelInfo {
	out := make([]ModelInfo, len(catalog))
	copy(out, catalog)
	return out
}

func LookupModel(id string) (ModelInfo, bool) {
	for _, m := range catalog {
		if string(m.ID) == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

func (m Model) Valid() bool {
	_, ok := LookupModel(string(m))
	return ok
}
