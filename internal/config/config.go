package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig        `toml:"app"`
	Auth       AuthConfig       `toml:"auth"`
	Supabase   SupabaseConfig   `toml:"supabase"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Transcribe TranscribeConfig `toml:"transcribe"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type AuthConfig struct {
	Secret          string `toml:"secret"`
	Algorithm       string `toml:"algorithm"`
	TokenTTLSeconds int    `toml:"token_ttl_seconds"`
}

type SupabaseConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

type TranscribeConfig struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollTimeoutSeconds  int    `toml:"poll_timeout_seconds"`
	// SpeechModels maps a language code to a reduced-resource model the
	// provider should use for that language.
	SpeechModels map[string]string `toml:"speech_models"`
}

func Load() (*Config, error) {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "chatrelay",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Auth: AuthConfig{
			Algorithm:       "HS256",
			TokenTTLSeconds: 86400,
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-3.5-turbo",
		},
		Transcribe: TranscribeConfig{
			BaseURL:             "https://api.assemblyai.com/v2",
			PollIntervalSeconds: 1,
			PollTimeoutSeconds:  300,
			SpeechModels:        map[string]string{"ar": "nano"},
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.Auth.Secret = getEnv("SECRET_KEY", cfg.Auth.Secret)
	cfg.Auth.Algorithm = getEnv("ALGORITHM", cfg.Auth.Algorithm)
	cfg.Auth.TokenTTLSeconds = getEnvAsInt("TOKEN_EXPIRE_SECONDS", cfg.Auth.TokenTTLSeconds)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.APIKey = getEnv("SUPABASE_KEY", cfg.Supabase.APIKey)

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)

	cfg.Transcribe.APIKey = getEnv("ASSEMBLYAI_API_KEY", cfg.Transcribe.APIKey)
	cfg.Transcribe.BaseURL = getEnv("ASSEMBLYAI_BASE_URL", cfg.Transcribe.BaseURL)
	cfg.Transcribe.PollIntervalSeconds = getEnvAsInt("TRANSCRIBE_POLL_INTERVAL_SECONDS", cfg.Transcribe.PollIntervalSeconds)
	cfg.Transcribe.PollTimeoutSeconds = getEnvAsInt("TRANSCRIBE_POLL_TIMEOUT_SECONDS", cfg.Transcribe.PollTimeoutSeconds)
	if pairs := getEnv("TRANSCRIBE_SPEECH_MODELS", ""); pairs != "" {
		cfg.Transcribe.SpeechModels = parseModelPairs(pairs)
	}
}

// parseModelPairs parses "ar=nano,he=nano" style overrides.
func parseModelPairs(raw string) map[string]string {
	models := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		lang := strings.TrimSpace(parts[0])
		mdl := strings.TrimSpace(parts[1])
		if lang == "" || mdl == "" {
			continue
		}
		models[lang] = mdl
	}
	return models
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
