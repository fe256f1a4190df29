// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Caller input errors.
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrInsufficientHistory      = errors.New("insufficient history")
	ErrInvalidHistory           = errors.New("invalid history")
	ErrNotAnImage               = errors.New("not an image")
	ErrUnreadableImage          = errors.New("unreadable image")

	// Environment errors.
	ErrOCREngineUnavailable = errors.New("ocr engine unavailable")

	// Internal errors.
	ErrOCRProcessingFailed = errors.New("ocr processing failed")
	ErrModelFit            = errors.New("model fit failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ErrorKind groups errors by who has to act on them.
type ErrorKind int

// Error kinds.
const (
	KindInternal ErrorKind = iota
	KindInput
	KindEnvironment
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindEnvironment:
		return "environment"
	default:
		return "internal"
	}
}

// Kind classifies err. Anything not recognized is internal.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInsufficientTrainingData),
		errors.Is(err, ErrInsufficientHistory),
		errors.Is(err, ErrInvalidHistory),
		errors.Is(err, ErrNotAnImage),
		errors.Is(err, ErrUnreadableImage):
		return KindInput
	case errors.Is(err, ErrOCREngineUnavailable):
		return KindEnvironment
	default:
		return KindInternal
	}
}

// UserMessage returns the caller-facing text for err.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
