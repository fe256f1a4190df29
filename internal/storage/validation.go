package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/spice-insight/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidEvent      = errors.New("invalid model event")
	ErrInvalidPrediction = errors.New("invalid prediction")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateModelInfo(info model.ModelInfo) error {
	if info.Version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidEvent)
	}
	if info.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive", ErrInvalidEvent)
	}
	if info.TrainedAt.IsZero() {
		return fmt.Errorf("%w: missing trained-at time", ErrInvalidEvent)
	}
	return nil
}

func validatePrediction(p model.Prediction) error {
	if p.ModelVersion == "" {
		return fmt.Errorf("%w: missing model version", ErrInvalidPrediction)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidPrediction)
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidPrediction, p.Confidence)
	}
	return nil
}
