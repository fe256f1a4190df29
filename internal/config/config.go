// Package config loads spice-insight settings from viper and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/spf13/viper"
)

// Config is the service configuration.
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Database DatabaseConfig
	Cache    CacheConfig
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Address     string
	BodyLimitMB int
}

// OCRConfig configures the tesseract recognizer.
type OCRConfig struct {
	TesseractPath string
	Language      string
	RateLimit     int // recognitions per minute
}

// DatabaseConfig configures the event journal. An empty path disables it.
type DatabaseConfig struct {
	Path string
}

// CacheConfig configures the classification cache.
type CacheConfig struct {
	TTL     time.Duration
	Disable bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.body_limit_mb", 10)
	v.SetDefault("ocr.tesseract_path", "")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.rate_limit", 60)
	v.SetDefault("database.path", "")
	v.SetDefault("cache.ttl", 15*time.Minute)
	v.SetDefault("cache.disable", false)
}

// Load reads configuration from v. It follows this precedence:
// 1. Viper configuration (config file, flags or SPICE_INSIGHT_ env vars)
// 2. Direct environment variables (TESSERACT_CMD)
// 3. Default values
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Address:     v.GetString("server.address"),
			BodyLimitMB: v.GetInt("server.body_limit_mb"),
		},
		OCR: OCRConfig{
			TesseractPath: v.GetString("ocr.tesseract_path"),
			Language:      v.GetString("ocr.language"),
			RateLimit:     v.GetInt("ocr.rate_limit"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Cache: CacheConfig{
			TTL:     v.GetDuration("cache.ttl"),
			Disable: v.GetBool("cache.disable"),
		},
	}

	if cfg.OCR.TesseractPath == "" {
		cfg.OCR.TesseractPath = os.Getenv("TESSERACT_CMD")
	}
	if cfg.OCR.TesseractPath == "" {
		cfg.OCR.TesseractPath = "tesseract"
	}
	cfg.OCR.TesseractPath = ExpandPath(cfg.OCR.TesseractPath)

	if cfg.Database.Path != "" && cfg.Database.Path != ":memory:" {
		cfg.Database.Path = ExpandPath(cfg.Database.Path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service can't run with.
func (c Config) Validate() error {
	var missing, problems []string

	if strings.TrimSpace(c.Server.Address) == "" {
		missing = append(missing, "server.address")
	}
	if c.Server.BodyLimitMB <= 0 {
		problems = append(problems, fmt.Sprintf("server.body_limit_mb must be positive, got %d", c.Server.BodyLimitMB))
	}
	if c.OCR.RateLimit <= 0 {
		problems = append(problems, fmt.Sprintf("ocr.rate_limit must be positive, got %d", c.OCR.RateLimit))
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		missing = append(missing, "ocr.language")
	}
	if c.Cache.TTL < 0 {
		problems = append(problems, fmt.Sprintf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(missing, ", ")))
	}
	if len(problems) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(problems, "; ")))
	}
	return errors.Join(errs...)
}
