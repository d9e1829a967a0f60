package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tundeoj/snapsort/internal/vision"
)

// Config holds all application configuration
type Config struct {
	Vision  VisionConfig
	OCR     OCRConfig
	History HistoryConfig
}

// VisionConfig holds AI backend configuration. It is loaded once at the
// edge and threaded explicitly into the core; nothing inside the pipeline
// reads ambient state.
type VisionConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Referer     string
	AppTitle    string
	RatePerSec  float64
	Burst       int
}

// OCRConfig holds tesseract-related configuration
type OCRConfig struct {
	Tesseract   string
	Lang        string
	TessdataDir string
	PSM         int
}

// HistoryConfig holds the local result store configuration
type HistoryConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	provider := getEnv("SNAPSORT_PROVIDER", "openai")

	apiKey := getEnv("SNAPSORT_API_KEY", "")
	if apiKey == "" {
		switch provider {
		case "openrouter":
			apiKey = getEnv("OPENROUTER_API_KEY", "")
		default:
			apiKey = getEnv("OPENAI_API_KEY", "")
		}
	}

	return &Config{
		Vision: VisionConfig{
			Provider:    provider,
			APIKey:      apiKey,
			Model:       getEnv("SNAPSORT_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("SNAPSORT_BASE_URL", ""),
			Temperature: getEnvAsFloat32("SNAPSORT_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("SNAPSORT_MAX_TOKENS", 1024),
			Timeout:     getEnvAsDuration("SNAPSORT_TIMEOUT", 45*time.Second),
			Referer:     getEnv("SNAPSORT_REFERER", "https://github.com/tundeoj/snapsort"),
			AppTitle:    getEnv("SNAPSORT_APP_TITLE", "snapsort"),
			RatePerSec:  getEnvAsFloat64("SNAPSORT_RATE_PER_SEC", 2),
			Burst:       getEnvAsInt("SNAPSORT_RATE_BURST", 4),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("SNAPSORT_TESSERACT", "tesseract"),
			Lang:        getEnv("SNAPSORT_OCR_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			PSM:         getEnvAsInt("SNAPSORT_OCR_PSM", 0),
		},
		History: HistoryConfig{
			DBPath: getEnv("SNAPSORT_DB", defaultDBPath()),
		},
	}
}

// BackendConfig converts the env-level vision settings into the explicit
// backend configuration the core consumes.
func (v VisionConfig) BackendConfig() vision.Config {
	return vision.Config{
		Provider:    vision.Provider(v.Provider),
		APIKey:      v.APIKey,
		Model:       v.Model,
		BaseURL:     v.BaseURL,
		Temperature: v.Temperature,
		MaxTokens:   v.MaxTokens,
		Timeout:     v.Timeout,
		Referer:     v.Referer,
		AppTitle:    v.AppTitle,
	}
}

// RateLimiter builds the shared limiter for backend calls, or nil when
// rate limiting is disabled.
func (v VisionConfig) RateLimiter() *rate.Limiter {
	if v.RatePerSec <= 0 {
		return nil
	}
	burst := v.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(v.RatePerSec), burst)
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Vision.Provider != "openai" && c.Vision.Provider != "openrouter" {
		return NewAppError("CONFIG_ERROR", "SNAPSORT_PROVIDER must be openai or openrouter", ErrInvalidInput)
	}
	if c.Vision.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "an API key is required (OPENAI_API_KEY, OPENROUTER_API_KEY, or SNAPSORT_API_KEY)", ErrInvalidInput)
	}
	if c.History.DBPath == "" {
		return NewAppError("CONFIG_ERROR", "SNAPSORT_DB is required", ErrInvalidInput)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapsort.db"
	}
	return filepath.Join(home, ".snapsort", "history.db")
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
