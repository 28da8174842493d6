// README: Config loader with env defaults for HTTP, stores, Amadeus, chat backends and quota.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"

	ChatOpenAI = "openai"
	ChatGemini = "gemini"
)

type AmadeusConfig struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond float64
}

type ChatConfig struct {
	Provider     string
	Model        string
	OpenAIKey    string
	GeminiKey    string
	MonthlyQuota int
}

type Config struct {
	Env      string
	LogLevel string
	HTTP     struct {
		Addr        string
		CORSOrigins []string
	}
	Store struct {
		Backend string
	}
	DB struct {
		DSN           string
		Migrate       bool
		MigrationsDir string
	}
	Redis struct {
		Addr string
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	Amadeus AmadeusConfig
	Chat    ChatConfig
	Maps    struct {
		APIKey string
	}
}

// Load reads .env files when present and then the process environment.
// Missing provider credentials fail here so the process never starts half-configured.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	var cfg Config
	cfg.Env = envOrDefault("WAYFARE_ENV", "dev")
	cfg.LogLevel = envOrDefault("WAYFARE_LOG_LEVEL", "info")
	cfg.HTTP.Addr = envOrDefault("WAYFARE_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = envOrDefaultList("WAYFARE_CORS_ORIGINS", []string{"*"})
	cfg.Store.Backend = strings.ToLower(envOrDefault("WAYFARE_STORE_BACKEND", StoreFirestore))
	cfg.DB.DSN = os.Getenv("WAYFARE_DB_DSN")
	cfg.DB.Migrate = envOrDefault("WAYFARE_DB_MIGRATE", "false") == "true"
	cfg.DB.MigrationsDir = envOrDefault("WAYFARE_MIGRATIONS_DIR", "migrations")
	cfg.Redis.Addr = os.Getenv("WAYFARE_REDIS_ADDR")
	cfg.Firebase.ProjectID = os.Getenv("WAYFARE_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = os.Getenv("WAYFARE_FIREBASE_CREDENTIALS_FILE")

	cfg.Amadeus.BaseURL = strings.TrimRight(envOrDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/")
	cfg.Amadeus.ClientID = os.Getenv("AMADEUS_CLIENT_ID")
	cfg.Amadeus.ClientSecret = os.Getenv("AMADEUS_CLIENT_SECRET")
	cfg.Amadeus.RequestsPerSecond = envOrDefaultFloat("AMADEUS_REQUESTS_PER_SECOND", 10)

	cfg.Chat.Provider = strings.ToLower(envOrDefault("WAYFARE_CHAT_PROVIDER", ChatOpenAI))
	cfg.Chat.Model = os.Getenv("WAYFARE_CHAT_MODEL")
	cfg.Chat.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Chat.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.Chat.MonthlyQuota = envOrDefaultInt("WAYFARE_CHAT_MONTHLY_QUOTA", 0)

	cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Amadeus.ClientID == "" || c.Amadeus.ClientSecret == "" {
		errs = append(errs, errors.New("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required"))
	}
	if c.Firebase.ProjectID == "" {
		errs = append(errs, errors.New("WAYFARE_FIREBASE_PROJECT_ID is required"))
	}
	switch c.Chat.Provider {
	case ChatOpenAI:
		if c.Chat.OpenAIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required"))
		}
	case ChatGemini:
		if c.Chat.GeminiKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported WAYFARE_CHAT_PROVIDER %q", c.Chat.Provider))
	}
	switch c.Store.Backend {
	case StoreFirestore:
	case StorePostgres:
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("WAYFARE_DB_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported WAYFARE_STORE_BACKEND %q", c.Store.Backend))
	}
	if c.Amadeus.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("AMADEUS_REQUESTS_PER_SECOND must be positive"))
	}
	return errors.Join(errs...)
}

// QuotaEnabled reports whether chat calls are metered.
func (c Config) QuotaEnabled() bool {
	return c.Redis.Addr != "" && c.Chat.MonthlyQuota > 0
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
