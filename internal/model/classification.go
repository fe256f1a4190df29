// Package model defines the core domain models used throughout the application.
package model

import "time"

// Prediction is the categorizer's answer for one expense.
type Prediction struct {
	ModelVersion string
	Category     Category
	Confidence   float64
}

// ModelInfo describes the model currently answering classification requests.
type ModelInfo struct {
	TrainedAt time.Time
	Version   string
	Labels    []Category
	Samples   int
}
