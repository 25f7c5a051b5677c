package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT, default=8080"`
	Env             string   `env:"ENV, default=dev"`
	LogLevel        string   `env:"LOG_LEVEL, default=info"`
	LogPretty       bool     `env:"LOG_PRETTY, default=false"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:3000"`
	AppBaseURL      string   `env:"APP_BASE_URL, default=http://localhost:3000"`
	MaxUploadBytes  int64    `env:"MAX_UPLOAD_BYTES, default=1048576"`

	// CheckResumeFirst looks up the stored resume before a credit is spent,
	// so a stale client session id cannot burn a paid credit.
	CheckResumeFirst bool `env:"GENERATION_CHECK_RESUME_FIRST, default=false"`

	Stripe StripeConfig
	LLM    LLMConfig
}

// StripeConfig configures checkout creation and payment verification.
type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	PriceID   string `env:"STRIPE_PRICE_ID"`
}

// LLMConfig selects and configures the resume rewriter provider.
type LLMConfig struct {
	Provider       string `env:"LLM_PROVIDER, default=openai"`
	Model          string `env:"LLM_MODEL"`
	OpenAIKey      string `env:"OPENAI_API_KEY"`
	GeminiKey      string `env:"GEMINI_API_KEY"`
	TimeoutSeconds int    `env:"OPENAI_TIMEOUT_SECONDS, default=120"`
}

// productionRequirements lists what must be set before serving real traffic.
type productionRequirements struct {
	StripeSecretKey string `validate:"required"`
	StripePriceID   string `validate:"required"`
	AppBaseURL      string `validate:"required,url"`
	LLMKey          string `validate:"required"`
}

// Load reads configuration from .env files (best effort) and the environment.
func Load(ctx context.Context) (Config, error) {
	// Missing files are fine; real deployments use the process environment.
	_ = godotenv.Load(".env", "cmd/.env")
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.LLM.Provider = normalizeProvider(cfg.LLM.Provider)
	cfg.CORSAllowOrigin = splitAndTrim(cfg.CORSAllowOrigin)
	cfg.AppBaseURL = strings.TrimRight(strings.TrimSpace(cfg.AppBaseURL), "/")

	if cfg.Env == "production" {
		if err := validateProduction(cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func validateProduction(cfg Config) error {
	req := productionRequirements{
		StripeSecretKey: cfg.Stripe.SecretKey,
		StripePriceID:   cfg.Stripe.PriceID,
		AppBaseURL:      cfg.AppBaseURL,
		LLMKey:          cfg.LLMKey(),
	}
	err := validator.New().Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("config: %w", err)
	}
	missing := make([]string, 0, len(ve))
	for _, fe := range ve {
		missing = append(missing, envNameFor(fe.Field()))
	}
	return fmt.Errorf("config: missing or invalid environment variables: %s", strings.Join(missing, ", "))
}

// LLMKey returns the API key for the selected provider.
func (c Config) LLMKey() string {
	if c.LLM.Provider == "gemini" {
		return c.LLM.GeminiKey
	}
	return c.LLM.OpenAIKey
}

func envNameFor(field string) string {
	switch field {
	case "StripeSecretKey":
		return "STRIPE_SECRET_KEY"
	case "StripePriceID":
		return "STRIPE_PRICE_ID"
	case "AppBaseURL":
		return "APP_BASE_URL"
	case "LLMKey":
		return "OPENAI_API_KEY or GEMINI_API_KEY"
	default:
		return field
	}
}

func splitAndTrim(raw []string) []string {
	var out []string
	for _, p := range raw {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return "gemini"
	case "none", "placeholder":
		return "none"
	default:
		return "openai"
	}
}
