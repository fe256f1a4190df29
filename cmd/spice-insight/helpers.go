package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spice-insight/internal/config"
	"github.com/Veraticus/spice-insight/internal/ocr"
	"github.com/Veraticus/spice-insight/internal/textclass"
)

// SPICE_INSIGHT_SERVER_ADDRESS maps to server.address.
var envKeyReplacer = strings.NewReplacer(".", "_")

func newCategorizer(cfg config.Config) (*textclass.Service, error) {
	svc, err := textclass.NewService(textclass.Config{
		Logger:       slog.Default(),
		CacheTTL:     cfg.Cache.TTL,
		DisableCache: cfg.Cache.Disable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to train categorizer: %w", err)
	}
	return svc, nil
}

// newRecognizer returns a rate-limited tesseract recognizer. Callers must
// Close it.
func newRecognizer(cfg config.Config) *ocr.RateLimited {
	return ocr.NewRateLimited(ocr.NewTesseract(cfg.OCR.TesseractPath, cfg.OCR.Language), cfg.OCR.RateLimit)
}
