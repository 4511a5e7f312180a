package bootstrap

import (
	"fmt"
	"time"

	"chatrelay/internal/ai"
	"chatrelay/internal/config"
	"chatrelay/internal/pkg/jwtutil"
	"chatrelay/internal/store"
	"chatrelay/internal/transcribe"
)

// App holds the configuration and the outbound clients. Everything here is
// built once at startup and never mutated afterwards.
type App struct {
	Config      *config.Config
	Store       *store.Client
	Generator   *ai.Generator
	Transcriber *transcribe.Client

	StartedAt time.Time
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required (SECRET_KEY)")
	}
	if _, err := jwtutil.SigningMethod(cfg.Auth.Algorithm); err != nil {
		return nil, err
	}
	if cfg.Supabase.URL == "" || cfg.Supabase.APIKey == "" {
		return nil, fmt.Errorf("datastore url and api key are required (SUPABASE_URL, SUPABASE_KEY)")
	}

	storeClient := store.NewClient(cfg.Supabase.URL, cfg.Supabase.APIKey)

	generator := ai.NewGenerator(ai.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
	})

	transcriber := transcribe.NewClient(transcribe.Config{
		BaseURL:      cfg.Transcribe.BaseURL,
		APIKey:       cfg.Transcribe.APIKey,
		PollInterval: time.Duration(cfg.Transcribe.PollIntervalSeconds) * time.Second,
		PollTimeout:  time.Duration(cfg.Transcribe.PollTimeoutSeconds) * time.Second,
		SpeechModels: cfg.Transcribe.SpeechModels,
	})

	return &App{
		Config:      cfg,
		Store:       storeClient,
		Generator:   generator,
		Transcriber: transcriber,
		StartedAt:   time.Now(),
	}, nil
}
