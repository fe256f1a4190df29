package textclass

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/spice-insight/internal/common"
)

// Featurizer turns documents into L2-normalized TF-IDF vectors over a
// vocabulary learned at fit time. It is immutable after fitting.
type Featurizer struct {
	index map[string]int
	terms []string
	idf   []float64
}

// FitFeaturizer learns the vocabulary and smoothed IDF weights from docs.
func FitFeaturizer(docs []string) (*Featurizer, error) {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	if len(docFreq) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", common.ErrModelFit)
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	f := &Featurizer{
		index: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	for i, term := range terms {
		f.index[term] = i
		f.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return f, nil
}

// Dim is the vocabulary size.
func (f *Featurizer) Dim() int {
	return len(f.terms)
}

// Transform featurizes one document. Terms outside the vocabulary are
// ignored, so the zero vector is a valid result.
func (f *Featurizer) Transform(doc string) []float64 {
	vec := make([]float64, len(f.terms))
	for _, tok := range tokenize(doc) {
		if i, ok := f.index[tok]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i, count := range vec {
		if count == 0 {
			continue
		}
		vec[i] = count * f.idf[i]
		norm += vec[i] * vec[i]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}
