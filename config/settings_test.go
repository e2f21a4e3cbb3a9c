package config

import "testing"

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COUNSEL_PROVIDER",
		"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_VERSION",
		"OPENAI_API_KEY", "OPENAI_BASE_URL",
		"OLLAMA_ENDPOINT", "OLLAMA_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSettingsAzure(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COUNSEL_PROVIDER", "azure")
	t.Setenv("AZURE_OPENAI_API_KEY", "key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Provider != ProviderAzure {
		t.Errorf("provider: %q", s.Provider)
	}
	if s.Azure.APIVersion != "2024-05-01-preview" {
		t.Errorf("api version default: %q", s.Azure.APIVersion)
	}
}

func TestLoadSettingsAzureMissingCredentials(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COUNSEL_PROVIDER", "azure")

	if _, err := LoadSettings(); err == nil {
		t.Fatal("expected error for missing azure credentials")
	}
}

func TestLoadSettingsOpenAI(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COUNSEL_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:4000")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.OpenAI.BaseURL != "http://localhost:4000" {
		t.Errorf("base url: %q", s.OpenAI.BaseURL)
	}
}

func TestLoadSettingsOllamaDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COUNSEL_PROVIDER", "ollama")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Ollama.Endpoint != "http://localhost:11434" {
		t.Errorf("endpoint default: %q", s.Ollama.Endpoint)
	}
	if s.Ollama.Model != "gemma3:12b" {
		t.Errorf("model default: %q", s.Ollama.Model)
	}
}

func TestLoadOllamaSettingsNeedsNoCredentials(t *testing.T) {
	// the default provider is azure; the ollama-only path must still work
	// with no cloud credentials in the environment
	clearProviderEnv(t)

	s := LoadOllamaSettings()
	if s.Endpoint != "http://localhost:11434" {
		t.Errorf("endpoint default: %q", s.Endpoint)
	}
	if s.Model != "gemma3:12b" {
		t.Errorf("model default: %q", s.Model)
	}

	t.Setenv("OLLAMA_MODEL", "qwen3:8b")
	if s := LoadOllamaSettings(); s.Model != "qwen3:8b" {
		t.Errorf("model override: %q", s.Model)
	}
}

func TestLoadSettingsUnknownProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COUNSEL_PROVIDER", "watson")

	if _, err := LoadSettings(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
