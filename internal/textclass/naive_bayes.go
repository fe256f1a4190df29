package textclass

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/model"
)

// laplaceAlpha is the additive smoothing applied to every feature count.
const laplaceAlpha = 1.0

// NaiveBayes is a multinomial naive Bayes classifier over weighted features.
// Classes are kept in lexicographic order, which is also the tie-break order.
type NaiveBayes struct {
	classes       []model.Category
	logPrior      []float64
	logLikelihood [][]float64
}

// FitNaiveBayes fits class priors and per-class feature log probabilities.
func FitNaiveBayes(features [][]float64, labels []model.Category) (*NaiveBayes, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, fmt.Errorf("%w: %d feature rows for %d labels", common.ErrModelFit, len(features), len(labels))
	}
	dim := len(features[0])

	classCount := make(map[model.Category]int)
	for _, label := range labels {
		classCount[label]++
	}

	classes := make([]model.Category, 0, len(classCount))
	for c := range classCount {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	classIndex := make(map[model.Category]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, dim)
	}
	for row, vec := range features {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", common.ErrModelFit, row, len(vec), dim)
		}
		counts := featureCount[classIndex[labels[row]]]
		for j, v := range vec {
			counts[j] += v
		}
	}

	nb := &NaiveBayes{
		classes:       classes,
		logPrior:      make([]float64, len(classes)),
		logLikelihood: make([][]float64, len(classes)),
	}
	total := float64(len(labels))
	for i, c := range classes {
		nb.logPrior[i] = math.Log(float64(classCount[c]) / total)

		var sum float64
		for _, v := range featureCount[i] {
			sum += v + laplaceAlpha
		}
		ll := make([]float64, dim)
		for j, v := range featureCount[i] {
			ll[j] = math.Log((v + laplaceAlpha) / sum)
		}
		nb.logLikelihood[i] = ll
	}

	return nb, nil
}

// Classes returns the labels the classifier can predict, in tie-break order.
func (nb *NaiveBayes) Classes() []model.Category {
	out := make([]model.Category, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// Probabilities returns the posterior distribution aligned with Classes.
func (nb *NaiveBayes) Probabilities(vec []float64) []float64 {
	joint := make([]float64, len(nb.classes))
	maxLog := math.Inf(-1)
	for i := range nb.classes {
		score := nb.logPrior[i]
		for j, v := range vec {
			if v != 0 {
				score += v * nb.logLikelihood[i][j]
			}
		}
		joint[i] = score
		if score > maxLog {
			maxLog = score
		}
	}

	var sum float64
	for i, score := range joint {
		joint[i] = math.Exp(score - maxLog)
		sum += joint[i]
	}
	for i := range joint {
		joint[i] /= sum
	}
	return joint
}

// Predict returns the most probable class and its probability. Ties go to
// the class that sorts first.
func (nb *NaiveBayes) Predict(vec []float64) (model.Category, float64) {
	probs := nb.Probabilities(vec)
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return nb.classes[best], probs[best]
}
