package textclass

import (
	"math"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/google/uuid"
)

// ModelState is a fitted featurizer/classifier pair. It is never mutated
// after Fit returns; retraining builds a new one.
type ModelState struct {
	trainedAt  time.Time
	featurizer *Featurizer
	classifier *NaiveBayes
	version    string
	samples    int
}

// Fit builds a ModelState from the given corpus.
func Fit(corpus []model.TrainingExample) (*ModelState, error) {
	docs := make([]string, len(corpus))
	labels := make([]model.Category, len(corpus))
	for i, ex := range corpus {
		docs[i] = ex.Document()
		labels[i] = ex.Label
	}

	featurizer, err := FitFeaturizer(docs)
	if err != nil {
		return nil, err
	}

	features := make([][]float64, len(docs))
	for i, doc := range docs {
		features[i] = featurizer.Transform(doc)
	}

	classifier, err := FitNaiveBayes(features, labels)
	if err != nil {
		return nil, err
	}

	return &ModelState{
		featurizer: featurizer,
		classifier: classifier,
		version:    uuid.NewString(),
		samples:    len(corpus),
		trainedAt:  time.Now().UTC(),
	}, nil
}

// Predict classifies one document.
func (s *ModelState) Predict(doc string) model.Prediction {
	label, p := s.classifier.Predict(s.featurizer.Transform(doc))
	return model.Prediction{
		ModelVersion: s.version,
		Category:     label,
		Confidence:   roundTo(p, 3),
	}
}

// Info describes the state.
func (s *ModelState) Info() model.ModelInfo {
	return model.ModelInfo{
		Version:   s.version,
		Labels:    s.classifier.Classes(),
		Samples:   s.samples,
		TrainedAt: s.trainedAt,
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
