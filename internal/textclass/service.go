// Package textclass categorizes expenses with a TF-IDF + multinomial naive
// Bayes model that can be refit at runtime from caller-supplied examples.
package textclass

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/model"
)

// MinRetrainExamples is the smallest batch Retrain accepts.
const MinRetrainExamples = 3

// Observer is told about every model that gets published.
type Observer interface {
	ModelPublished(ctx context.Context, info model.ModelInfo, newSamples int)
}

// Config configures a Service.
type Config struct {
	Logger   *slog.Logger
	CacheTTL time.Duration
	// DisableCache turns off prediction caching.
	DisableCache bool
}

// Service owns the current ModelState and answers classification requests.
//
// Classify loads the current state once per call, so it always sees either
// the old or the new model in full. Retrain fits off to the side and then
// swaps the pointer. Concurrent retrains are not serialized: each fits from
// the seed corpus plus its own examples and the last swap wins. Callers of
// the losing retrains still get their own sample counts back.
type Service struct {
	current   atomic.Pointer[ModelState]
	cache     *predictionCache
	logger    *slog.Logger
	fit       func([]model.TrainingExample) (*ModelState, error)
	observers []Observer
	mu        sync.RWMutex
}

// NewService fits the seed corpus and returns a ready service.
func NewService(cfg Config) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		logger: logger.With("component", "categorizer"),
		fit:    Fit,
	}
	if !cfg.DisableCache {
		s.cache = newPredictionCache(cfg.CacheTTL)
	}

	state, err := s.fit(SeedCorpus())
	if err != nil {
		return nil, fmt.Errorf("failed to fit seed corpus: %w", err)
	}
	s.current.Store(state)

	s.logger.Info("Categorizer ready",
		"version", state.version,
		"samples", state.samples,
		"labels", len(state.classifier.classes))

	return s, nil
}

// AddObserver registers o for future publishes.
func (s *Service) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Classify predicts the category of an expense. It always succeeds.
func (s *Service) Classify(title, description string) model.Prediction {
	return s.classifyWith(s.current.Load(), model.Document(title, description))
}

func (s *Service) classifyWith(state *ModelState, doc string) model.Prediction {
	if s.cache == nil {
		return state.Predict(doc)
	}

	key := cacheKey(state.version, doc)
	if p, ok := s.cache.get(key); ok {
		return p
	}
	p := state.Predict(doc)
	s.cache.set(key, p)
	return p
}

// Retrain fits a new model over the seed corpus plus examples and publishes
// it. It returns the number of examples the new model was fit on. On any
// error the current model keeps serving.
func (s *Service) Retrain(ctx context.Context, examples []model.TrainingExample) (int, error) {
	if len(examples) < MinRetrainExamples {
		return 0, fmt.Errorf("%w: need at least %d training samples, got %d",
			common.ErrInsufficientTrainingData, MinRetrainExamples, len(examples))
	}

	corpus := append(SeedCorpus(), examples...)

	state, err := s.fit(corpus)
	if err != nil {
		s.logger.Error("Retraining failed, keeping current model",
			"version", s.current.Load().version,
			"error", err)
		return 0, fmt.Errorf("retraining failed: %w", err)
	}

	previous := s.current.Swap(state)
	if s.cache != nil {
		s.cache.purge(state.version)
	}

	info := state.Info()
	s.logger.Info("Published retrained model",
		"version", info.Version,
		"previous_version", previous.version,
		"samples", info.Samples,
		"new_samples", len(examples),
		"labels", info.Labels)

	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()
	for _, o := range observers {
		o.ModelPublished(ctx, info, len(examples))
	}

	return state.samples, nil
}

// Info describes the model currently serving requests.
func (s *Service) Info() model.ModelInfo {
	return s.current.Load().Info()
}

// Close stops background cache maintenance.
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.close()
	}
}
