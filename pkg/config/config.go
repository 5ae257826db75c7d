package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	TextProvider  string `env:"TEXT_PROVIDER" envDefault:"gemini"`
	TextModel     string `env:"TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel    string `env:"IMAGE_MODEL" envDefault:"gemini-2.0-flash-preview-image-generation"`

	ImageRatePerSec  float64 `env:"IMAGE_RATE_PER_SEC" envDefault:"2"`
	PanelConcurrency int     `env:"PANEL_CONCURRENCY" envDefault:"3"`
	PromptMaxTokens  int     `env:"PROMPT_MAX_TOKENS" envDefault:"400"`

	// BUNDEBUG is read by bundebug directly.
	PgURL  string `env:"DATABASE_URL"`
	PgHost string `env:"DB_HOST"`

	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseKey        string `env:"SUPABASE_KEY"`
	StorageBucket      string `env:"STORAGE_BUCKET" envDefault:"comic-images"`
	StorageTrustedHost string `env:"STORAGE_TRUSTED_HOST"`
	StorageImageFormat string `env:"STORAGE_IMAGE_FORMAT" envDefault:"png"`

	GalleryCacheTTL time.Duration `env:"GALLERY_CACHE_TTL" envDefault:"30s"`
	SaveTimeout     time.Duration `env:"SAVE_TIMEOUT" envDefault:"60s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads the environment. A .env file is picked up by the caller.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	cfg.TextProvider = strings.ToLower(strings.TrimSpace(cfg.TextProvider))
	if cfg.TextProvider != ProviderGemini && cfg.TextProvider != ProviderOpenAI {
		return nil, fmt.Errorf("unknown TEXT_PROVIDER %q", cfg.TextProvider)
	}
	return &cfg, nil
}

// DatabaseEnabled is true when either a URL or a host for Postgres is set.
func (c *Config) DatabaseEnabled() bool {
	return c.PgURL != "" || c.PgHost != ""
}

func (c *Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
