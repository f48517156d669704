package src

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderXAI    = "xai"
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	envPrefix = "LATTICE_ENGINEER"
)

// Config is read once at process start.
type Config struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
	DirectDelay time.Duration
	BaseDir     string
	Structure   bool
	LogLevel    string
	LogFile     string
	Plain       bool
	ShowDiffs   bool
}

var providerDefaults = map[string]struct {
	baseURL, model string
	keyEnv         []string
}{
	ProviderXAI:    {"https://api.x.ai/v1/chat/completions", "grok-beta", []string{"XAI_API_KEY"}},
	ProviderHTTP:   {"https://api.openai.com/v1/chat/completions", "gpt-4o-mini", []string{"OPENAI_API_KEY"}},
	ProviderOpenAI: {"https://api.openai.com/v1", "gpt-4o-mini", []string{"OPENAI_API_KEY"}},
	ProviderGemini: {"", "gemini-2.5-pro", []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}},
}

var ErrMissingAPIKey = errors.New("no API key configured")

// SetConfigDefaults registers defaults and env bindings on v.
func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderXAI)
	v.SetDefault("temperature", 0.0)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("direct_delay", time.Second)
	v.SetDefault("base_dir", "")
	v.SetDefault("structure", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")
	v.SetDefault("plain", false)
	v.SetDefault("diffs", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadConfigFile loads path, or $HOME/.lattice-engineer.yaml when path is empty.
// A missing default file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetConfigType("yaml")
	v.SetConfigName(".lattice-engineer")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// LoadConfig resolves a Config from v, filling provider defaults.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Provider:    strings.ToLower(strings.TrimSpace(v.GetString("provider"))),
		BaseURL:     strings.TrimSpace(v.GetString("base_url")),
		Model:       strings.TrimSpace(v.GetString("model")),
		APIKey:      strings.TrimSpace(v.GetString("api_key")),
		Temperature: v.GetFloat64("temperature"),
		Timeout:     v.GetDuration("timeout"),
		DirectDelay: v.GetDuration("direct_delay"),
		BaseDir:     strings.TrimSpace(v.GetString("base_dir")),
		Structure:   v.GetBool("structure"),
		LogLevel:    v.GetString("log_level"),
		LogFile:     strings.TrimSpace(v.GetString("log_file")),
		Plain:       v.GetBool("plain"),
		ShowDiffs:   v.GetBool("diffs"),
	}

	defaults, ok := providerDefaults[cfg.Provider]
	if !ok {
		return Config{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.baseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.model
	}
	if cfg.APIKey == "" {
		cfg.APIKey = firstEnv(defaults.keyEnv...)
	}
	if cfg.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.BaseDir = wd
	}
	if cfg.DirectDelay < 0 {
		cfg.DirectDelay = 0
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// NewGateway builds the provider selected by cfg.
func NewGateway(ctx context.Context, cfg Config, logger *slog.Logger) (Gateway, error) {
	switch cfg.Provider {
	case ProviderXAI, ProviderHTTP:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w (set %s_API_KEY)", cfg.Provider, ErrMissingAPIKey, envPrefix)
		}
		return NewHTTPGateway(cfg, nil, logger), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w (set %s_API_KEY)", cfg.Provider, ErrMissingAPIKey, envPrefix)
		}
		return NewOpenAIGateway(cfg, nil, logger), nil
	case ProviderGemini:
		if cfg.APIKey != "" && os.Getenv("GOOGLE_API_KEY") == "" {
			_ = os.Setenv("GOOGLE_API_KEY", cfg.APIKey)
		}
		a, err := BuildAgent(ctx, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("build gemini agent: %w", err)
		}
		return NewAgentGateway(a, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
