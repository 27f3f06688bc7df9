package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Completion  CompletionConfig  `yaml:"completion"`
	Synopsis    SynopsisConfig    `yaml:"synopsis"`
	Sessions    SessionsConfig    `yaml:"sessions"`
	Storage     StorageConfig     `yaml:"storage"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	// ModelPath pins a single model file. When empty the model is picked
	// from ModelsDir by available GPU memory.
	ModelPath string `yaml:"model_path"`
	ModelsDir string `yaml:"models_dir"`
	Language  string `yaml:"language"`
	Prompt    string `yaml:"prompt"`
	Threads   int    `yaml:"threads"`
	UseGPU    bool   `yaml:"use_gpu"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	MaxTranscribe int `yaml:"max_transcribe"`
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
}

type CompletionConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// Temperature is nil when the key is absent; 0 is a valid setting.
	Temperature *float32 `yaml:"temperature"`

	// APIKeys are never read from YAML; see applyEnv.
	APIKeys []string `yaml:"-"`
}

// DefaultTemperature applies when completion.temperature is not set.
const DefaultTemperature float32 = 0.3

// EffectiveTemperature returns the configured temperature or DefaultTemperature.
func (c CompletionConfig) EffectiveTemperature() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

type SynopsisConfig struct {
	Locale string `yaml:"locale"`
	// ChunkBudget bounds the estimated cost of one chunk sent per completion call.
	ChunkBudget float64 `yaml:"chunk_budget"`
	// ContextBudget bounds the system prompt plus the replayed summary tail.
	ContextBudget   float64 `yaml:"context_budget"`
	StrictTimecodes bool    `yaml:"strict_timecodes"`
}

type SessionsConfig struct {
	OnConflict string `yaml:"on_conflict"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads a YAML config file, overlays secrets from the environment and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	var raw string
	switch strings.ToLower(c.Completion.Provider) {
	case "openai":
		raw = os.Getenv("OPENAI_API_KEY")
	default:
		raw = os.Getenv("GEMINI_API_KEYS")
		if raw == "" {
			raw = os.Getenv("GEMINI_API_KEY")
		}
	}

	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			c.Completion.APIKeys = append(c.Completion.APIKeys, k)
		}
	}
}

func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.ModelPath == "" && c.Whisper.ModelsDir == "" {
		return fmt.Errorf("whisper.model_path or whisper.models_dir is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.MaxTranscribe == 0 {
		c.Performance.MaxTranscribe = 1
	}

	if c.Completion.Provider == "" {
		c.Completion.Provider = "gemini"
	}
	c.Completion.Provider = strings.ToLower(c.Completion.Provider)
	switch c.Completion.Provider {
	case "gemini":
		if c.Completion.Model == "" {
			c.Completion.Model = "gemini-2.5-flash"
		}
	case "openai":
		if c.Completion.Model == "" {
			c.Completion.Model = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("completion.provider %q is not supported (gemini, openai)", c.Completion.Provider)
	}
	if c.Completion.Temperature == nil {
		t := DefaultTemperature
		c.Completion.Temperature = &t
	}
	if *c.Completion.Temperature < 0 || *c.Completion.Temperature > 2 {
		return fmt.Errorf("completion.temperature %v is out of range [0, 2]", *c.Completion.Temperature)
	}

	if c.Synopsis.Locale == "" {
		c.Synopsis.Locale = "en"
	}
	if c.Synopsis.Locale != "en" && c.Synopsis.Locale != "ru" {
		return fmt.Errorf("synopsis.locale %q is not supported (en, ru)", c.Synopsis.Locale)
	}
	if c.Synopsis.ChunkBudget == 0 {
		c.Synopsis.ChunkBudget = 1500
	}
	if c.Synopsis.ContextBudget == 0 {
		c.Synopsis.ContextBudget = 500
	}
	if c.Synopsis.ChunkBudget < 0 || c.Synopsis.ContextBudget < 0 {
		return fmt.Errorf("synopsis budgets must be positive")
	}

	if c.Sessions.OnConflict == "" {
		c.Sessions.OnConflict = "reject"
	}
	if c.Sessions.OnConflict != "reject" && c.Sessions.OnConflict != "replace" {
		return fmt.Errorf("sessions.on_conflict %q is not supported (reject, replace)", c.Sessions.OnConflict)
	}

	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "data/database.db"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
