package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/induct/internal/model"
)

// DefaultOllamaURL is Ollama's OpenAI-compatible endpoint
const DefaultOllamaURL = "http://localhost:11434/v1"

// NewProvider creates a provider from configuration. An empty provider name
// disables narration and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		// Ollama ignores the key but go-openai requires one
		if config.APIKey == "" {
			config.APIKey = "ollama"
		}
		if config.BaseURL == "" {
			config.BaseURL = DefaultOllamaURL
		}
		if config.Model == "" {
			config.Model = "llama3.2"
		}
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		p.name = "ollama"
		return p, nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:         modelConfig.Provider,
		Model:            modelConfig.Model,
		APIKey:           modelConfig.APIKey,
		BaseURL:          modelConfig.BaseURL,
		Timeout:          modelConfig.Timeout,
		StrictVocabulary: modelConfig.StrictVocabulary,
		MaxTokens:        modelConfig.MaxTokens,
		HTTPProxy:        modelConfig.HTTPProxy,
		HTTPSProxy:       modelConfig.HTTPSProxy,
		NoProxy:          modelConfig.NoProxy,
	}
}
