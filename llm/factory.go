package llm

import (
	"fmt"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/framework"
)

// NewModel builds the LanguageModel for the configured provider. The model name
// comes from the flow config; provider credentials from the environment.
func NewModel(settings *config.Settings, modelName string) (framework.LanguageModel, error) {
	switch settings.Provider {
	case config.ProviderAzure:
		return NewAzureClient(settings.Azure, modelName), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(settings.OpenAI, modelName), nil
	case config.ProviderOllama:
		if modelName == "" {
			modelName = settings.Ollama.Model
		}
		return NewOllamaClient(settings.Ollama.Endpoint, modelName), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", settings.Provider)
	}
}
