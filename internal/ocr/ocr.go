// Package ocr turns receipt images into text and structured extractions.
// The recognizer itself is an external engine; this package validates what
// is sent to it and classifies how it fails.
package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/Veraticus/spice-insight/internal/receipt"
)

// Recognizer converts image bytes into raw text.
//
// Implementations report common.ErrOCREngineUnavailable when the engine is
// missing or misconfigured and common.ErrOCRProcessingFailed when it ran and
// failed. Neither is retried here.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Scanner validates an upload, runs OCR and extracts receipt fields.
type Scanner struct {
	recognizer Recognizer
	logger     *slog.Logger
}

// NewScanner creates a scanner around recognizer.
func NewScanner(recognizer Recognizer, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		recognizer: recognizer,
		logger:     logger.With("component", "ocr"),
	}
}

// Scan handles one uploaded receipt.
func (s *Scanner) Scan(ctx context.Context, mediaType string, image []byte) (model.Extraction, error) {
	format, err := ValidateImage(mediaType, image)
	if err != nil {
		return model.Extraction{}, err
	}

	text, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return model.Extraction{}, fmt.Errorf("recognize %s image: %w", format, err)
	}

	ext := receipt.Extract(text)
	s.logger.Debug("Scanned receipt",
		"format", format,
		"bytes", len(image),
		"chars", len(text),
		"items", len(ext.Items),
		"has_amount", ext.Amount != nil)

	return ext, nil
}
