package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		Whisper: WhisperConfig{
			BinaryPath: "./whisper-cli",
			ModelPath:  "models/ggml-small.bin",
		},
		Paths: PathsConfig{
			Input:  "data/input",
			Output: "data/output",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "models dir instead of model path",
			mutate:  func(c *Config) { c.Whisper.ModelPath = ""; c.Whisper.ModelsDir = "models" },
			wantErr: false,
		},
		{
			name:    "missing model path and models dir",
			mutate:  func(c *Config) { c.Whisper.ModelPath = "" },
			wantErr: true,
		},
		{
			name:    "missing binary",
			mutate:  func(c *Config) { c.Whisper.BinaryPath = "" },
			wantErr: true,
		},
		{
			name:    "missing paths",
			mutate:  func(c *Config) { c.Paths = PathsConfig{} },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Completion.Provider = "yandexgpt" },
			wantErr: true,
		},
		{
			name:    "unknown locale",
			mutate:  func(c *Config) { c.Synopsis.Locale = "de" },
			wantErr: true,
		},
		{
			name:    "negative budget",
			mutate:  func(c *Config) { c.Synopsis.ContextBudget = -1 },
			wantErr: true,
		},
		{
			name:    "unknown conflict policy",
			mutate:  func(c *Config) { c.Sessions.OnConflict = "queue" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Synopsis.ChunkBudget != 1500 {
		t.Errorf("ChunkBudget = %v, want 1500", cfg.Synopsis.ChunkBudget)
	}
	if cfg.Synopsis.ContextBudget != 500 {
		t.Errorf("ContextBudget = %v, want 500", cfg.Synopsis.ContextBudget)
	}
	if cfg.Completion.Provider != "gemini" || cfg.Completion.Model != "gemini-2.5-flash" {
		t.Errorf("completion = %s/%s, want gemini/gemini-2.5-flash", cfg.Completion.Provider, cfg.Completion.Model)
	}
	if cfg.Completion.Temperature == nil || *cfg.Completion.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Completion.Temperature, DefaultTemperature)
	}
	if cfg.Whisper.Language != "auto" {
		t.Errorf("Language = %q, want auto", cfg.Whisper.Language)
	}
	if cfg.Sessions.OnConflict != "reject" {
		t.Errorf("OnConflict = %q, want reject", cfg.Sessions.OnConflict)
	}
	if cfg.Performance.MaxConcurrent != 2 || cfg.Performance.MaxTranscribe != 1 {
		t.Errorf("performance = %+v", cfg.Performance)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
whisper:
  binary_path: "./whisper-cli"
  models_dir: "models"
  language: "ru"

paths:
  input: "data/input"
  output: "data/output"

completion:
  provider: "OpenAI"
  base_url: "http://localhost:8080/v1"

synopsis:
  locale: "ru"
  chunk_budget: 1200
  context_budget: 400

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.ModelsDir != "models" {
		t.Errorf("ModelsDir = %v, want models", cfg.Whisper.ModelsDir)
	}
	if cfg.Completion.Provider != "openai" {
		t.Errorf("Provider = %v, want openai", cfg.Completion.Provider)
	}
	if len(cfg.Completion.APIKeys) != 1 || cfg.Completion.APIKeys[0] != "sk-test" {
		t.Errorf("APIKeys = %v, want [sk-test]", cfg.Completion.APIKeys)
	}
	if cfg.Synopsis.ChunkBudget != 1200 || cfg.Synopsis.ContextBudget != 400 {
		t.Errorf("budgets = %v/%v, want 1200/400", cfg.Synopsis.ChunkBudget, cfg.Synopsis.ContextBudget)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Logging.Format)
	}
}

func TestLoadGeminiKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "key-a, key-b,,")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
whisper:
  binary_path: "./whisper-cli"
  model_path: "models/ggml-small.bin"
paths:
  input: "in"
  output: "out"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Completion.APIKeys) != 2 || cfg.Completion.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v, want [key-a key-b]", cfg.Completion.APIKeys)
	}
}

func TestLoadZeroTemperature(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
whisper:
  binary_path: "./whisper-cli"
  model_path: "models/ggml-small.bin"
paths:
  input: "in"
  output: "out"
completion:
  temperature: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Completion.EffectiveTemperature(); got != 0 {
		t.Errorf("EffectiveTemperature() = %v, want 0", got)
	}
}

func TestValidateTemperatureRange(t *testing.T) {
	cfg := validConfig()
	hot := float32(2.5)
	cfg.Completion.Temperature = &hot
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject temperature 2.5")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
