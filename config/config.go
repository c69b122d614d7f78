package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	Timezone string
	DBPath   string
	LogMode  string
	Locale   string

	LLMProvider     string
	LLMEndpoint     string
	LLMAPIKey       string
	LLMModel        string
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTimeout      time.Duration

	// AdviceEndpoint points at a remote proxy. Empty means the in-process proxy.
	AdviceEndpoint  string
	ClientToken     string
	ProxyRatePerMin int
	CORSOrigins     []string

	ReminderInterval time.Duration

	FallbackCSV  string
	FallbackXLSX string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[cfg] error loading .env: %v", err)
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if n, err := strconv.Atoi(get(k, "")); err == nil && n > 0 {
			return n
		}
		return def
	}
	getDur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(get(k, "")); err == nil && d > 0 {
			return d
		}
		return def
	}

	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		Timezone:         get("TZ", "Local"),
		DBPath:           get("DB_PATH", "plantcare.db"),
		LogMode:          get("LOG_MODE", "dev"),
		Locale:           get("LOCALE", "en"),
		LLMProvider:      strings.ToLower(get("LLM_PROVIDER", "")),
		LLMEndpoint:      get("LLM_ENDPOINT", ""),
		LLMAPIKey:        get("LLM_API_KEY", ""),
		LLMModel:         get("LLM_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey:  get("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   get("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		LLMTimeout:       getDur("LLM_TIMEOUT", 25*time.Second),
		AdviceEndpoint:   get("ADVICE_ENDPOINT", ""),
		ClientToken:      get("CLIENT_TOKEN", ""),
		ProxyRatePerMin:  getInt("PROXY_RATE_PER_MIN", 20),
		ReminderInterval: getDur("REMINDER_INTERVAL", time.Minute),
		FallbackCSV:      get("FALLBACK_CSV", ""),
		FallbackXLSX:     get("FALLBACK_XLSX", ""),
	}
	for _, o := range strings.Split(get("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

// Location resolves the configured timezone, falling back to the host zone.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] unknown TZ %q, using Local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}
