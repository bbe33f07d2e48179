package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/ocr-fields/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	OCR      OCRConfig      `yaml:"ocr"`
	Batch    BatchConfig    `yaml:"batch"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine           string `yaml:"engine"`
	Tesseract        string `yaml:"tesseract"`
	Pdftoppm         string `yaml:"pdftoppm"`
	TessdataDir      string `yaml:"tessdata_dir"`
	Lang             string `yaml:"lang"`
	Mode             string `yaml:"mode"`
	DPI              int    `yaml:"dpi"`
	OEM              int    `yaml:"oem"`
	ArtifactCacheDir string `yaml:"artifact_cache_dir"`
	Preprocess       bool   `yaml:"preprocess"`
}

// BatchConfig sizes the worker queue used by ocr-batch
type BatchConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "file:ocrfields.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		OCR: OCRConfig{
			Engine:           getEnv("OCR_ENGINE", "cli"),
			Tesseract:        getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:         getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			Lang:             getEnv("OCR_LANG", "eng"),
			Mode:             getEnv("OCR_MODE", "auto"),
			DPI:              getEnvAsInt("OCR_DPI", 200),
			OEM:              getEnvAsInt("OCR_OEM", 3),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", ""),
			Preprocess:       getEnvAsBool("OCR_PREPROCESS", true),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:      getEnvAsInt("BATCH_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("BATCH_PROCESS_TIMEOUT", 3*time.Minute),
		},
	}
}

// LoadConfigFile starts from LoadConfig and overlays the YAML file at path.
// Keys absent from the file keep their environment-derived values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", "read config file", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse %s", path), err)
	}
	return cfg, nil
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("database.dsn", c.Database.DSN, Required).
		Field("ocr.engine", c.OCR.Engine, Required, OneOf("cli", "gosseract")).
		Field("ocr.lang", c.OCR.Lang, Required).
		Field("ocr.mode", c.OCR.Mode, OneOf(constants.ModesAsStringSlice()...)).
		Field("ocr.dpi", c.OCR.DPI, MinInt(72)).
		Field("batch.workers", c.Batch.Workers, MinInt(1)).
		Field("batch.queue_size", c.Batch.QueueSize, MinInt(1))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
