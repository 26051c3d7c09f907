package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string
	StaticDir    string

	// OpenDART settings
	DartAPIKey  string
	DartBaseURL string
	DartTimeout time.Duration
	CorpCodeDir string

	// Gemini settings
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Cache settings
	ReportCacheTTL time.Duration
	LookupCacheTTL time.Duration

	// HTTP surface
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
	MetricsEnabled     bool
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file
// and stores it in Cfg.
func LoadConfig() {
	loadDotEnv()
	Cfg = Load()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, DartBaseURL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.DartBaseURL)
}

// Load reads the configuration from the current environment without touching Cfg.
func Load() *AppConfig {
	dartKey := getEnv("OPEN_DART_API_KEY", "")
	if dartKey == "" || dartKey == "your_api_key_here" {
		log.Println("WARNING: OPEN_DART_API_KEY is not set. Financial statement requests will fail upstream.")
	}

	geminiKey := getEnv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		log.Println("Info: GEMINI_API_KEY is not set. AI explanations will return a configuration notice.")
	}

	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/companies.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StaticDir:    getEnv("STATIC_DIR", "./public"),

		DartAPIKey:  dartKey,
		DartBaseURL: strings.TrimRight(getEnv("OPEN_DART_BASE_URL", "https://opendart.fss.or.kr/api"), "/"),
		DartTimeout: getEnvAsDuration("OPEN_DART_TIMEOUT", 20*time.Second),
		CorpCodeDir: getEnv("CORP_CODE_DIR", "./data"),

		GeminiAPIKey: geminiKey,
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		AITimeout:    getEnvAsDuration("AI_TIMEOUT", 60*time.Second),

		ReportCacheTTL: getEnvAsDuration("REPORT_CACHE_TTL", 15*time.Minute),
		LookupCacheTTL: getEnvAsDuration("LOOKUP_CACHE_TTL", time.Hour),

		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
	}
}

func loadDotEnv() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if fallback != "" {
		log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid number value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
