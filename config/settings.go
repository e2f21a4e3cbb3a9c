package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Provider selects which backend serves model calls.
type Provider string

const (
	ProviderAzure  Provider = "azure"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// AzureCredentials configures Azure OpenAI access.
type AzureCredentials struct {
	APIKey     string
	Endpoint   string
	APIVersion string
}

// OpenAICredentials configures any OpenAI-compatible endpoint, including a
// LiteLLM proxy when BaseURL points at one.
type OpenAICredentials struct {
	APIKey  string
	BaseURL string
}

// OllamaSettings configures the local Ollama daemon.
type OllamaSettings struct {
	Endpoint string
	Model    string
}

// Settings holds provider credentials sourced from the environment.
type Settings struct {
	Provider Provider
	Azure    AzureCredentials
	OpenAI   OpenAICredentials
	Ollama   OllamaSettings
}

// LoadSettings reads credentials from the environment, loading a .env file
// first when one exists. Missing .env is fine; missing credentials for the
// selected provider is not.
func LoadSettings() (*Settings, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}

	s := &Settings{
		Provider: Provider(strings.ToLower(envOr("COUNSEL_PROVIDER", string(ProviderAzure)))),
		Azure: AzureCredentials{
			APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			APIVersion: envOr("AZURE_OPENAI_API_VERSION", "2024-05-01-preview"),
		},
		OpenAI: OpenAICredentials{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Ollama: OllamaSettings{
			Endpoint: envOr("OLLAMA_ENDPOINT", "http://localhost:11434"),
			Model:    envOr("OLLAMA_MODEL", "gemma3:12b"),
		},
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadOllamaSettings reads only the local daemon settings. The daemon needs no
// credentials, so commands pinned to it skip provider validation entirely.
func LoadOllamaSettings() OllamaSettings {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded environment from .env")
	}
	return OllamaSettings{
		Endpoint: envOr("OLLAMA_ENDPOINT", "http://localhost:11434"),
		Model:    envOr("OLLAMA_MODEL", "gemma3:12b"),
	}
}

func (s *Settings) validate() error {
	switch s.Provider {
	case ProviderAzure:
		if s.Azure.APIKey == "" || s.Azure.Endpoint == "" {
			return fmt.Errorf("provider azure requires AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT")
		}
	case ProviderOpenAI:
		if s.OpenAI.APIKey == "" {
			return fmt.Errorf("provider openai requires OPENAI_API_KEY")
		}
	case ProviderOllama:
		// local daemon, no credentials
	default:
		return fmt.Errorf("unknown provider %q (want azure, openai, or ollama)", s.Provider)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
