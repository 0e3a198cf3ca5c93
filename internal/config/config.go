package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfig marks fatal configuration problems: missing or malformed
// template and constants files.
var ErrConfig = errors.New("configuration error")

type Config struct {
	Port string

	// Auth
	APIKey string

	// Report inputs and outputs
	ConstantsPath string
	OutputDir     string // overrides constants output_dir when set
	UploadDir     string // root for image paths in API sessions; empty rejects them

	// Rendering
	ChartBackend     string
	ImageWidthInches float64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Request limits
	MaxBodyBytes int64

	// Job state
	JobTTL time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("ENVREPORT_API_KEY"),

		ConstantsPath: envOr("CONSTANTS_PATH", "monitoring/config/constants.json"),
		OutputDir:     os.Getenv("OUTPUT_DIR"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),

		ChartBackend:     envOr("CHART_BACKEND", "plot"),
		ImageWidthInches: envFloat("IMAGE_WIDTH_INCHES", 5),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 20),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10485760
	}
	if cfg.ImageWidthInches <= 0 {
		cfg.ImageWidthInches = 5
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings required by the HTTP service.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ENVREPORT_API_KEY is required")
	}
	if c.ConstantsPath == "" {
		return fmt.Errorf("CONSTANTS_PATH is required")
	}
	switch c.ChartBackend {
	case "plot", "analyze":
	default:
		return fmt.Errorf("CHART_BACKEND must be plot or analyze, got %q", c.ChartBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
