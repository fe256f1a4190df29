// Package server exposes the categorizer, receipt scanner and forecaster
// over HTTP. It validates requests and maps errors; all logic lives in the
// packages it calls.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// Categorizer classifies expenses and can be retrained.
type Categorizer interface {
	Classify(title, description string) model.Prediction
	Retrain(ctx context.Context, examples []model.TrainingExample) (int, error)
	Info() model.ModelInfo
}

// Scanner extracts receipt data from an uploaded image.
type Scanner interface {
	Scan(ctx context.Context, mediaType string, image []byte) (model.Extraction, error)
}

// ClassificationRecorder journals classification results.
type ClassificationRecorder interface {
	RecordClassification(ctx context.Context, title, description string, p model.Prediction) error
}

// Dependencies wires the HTTP server.
type Dependencies struct {
	Categorizer Categorizer
	Scanner     Scanner
	Recorder    ClassificationRecorder // optional
	Logger      *slog.Logger
	Version     string
	BodyLimit   int // bytes
	AccessLog   bool
}

// NewHTTPServer builds the fiber app.
func NewHTTPServer(deps Dependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := fiber.New(fiber.Config{
		AppName:      "spice-insight",
		BodyLimit:    deps.BodyLimit,
		ErrorHandler: errorHandler,
	})

	router.Use(cors.New())
	if deps.AccessLog {
		router.Use(logger.New())
	}

	h := &handlers{deps: deps, logger: deps.Logger.With("component", "http")}

	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"service":   "spice-insight",
			"status":    "ok",
			"version":   deps.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"features":  []string{"ocr", "categorize", "predict"},
		})
	})

	router.Post("/categorize", h.categorize)
	router.Post("/retrain", h.retrain)
	router.Get("/model", h.modelInfo)
	router.Post("/ocr", h.ocr)
	router.Post("/predict", h.predict)

	return router
}

// errorHandler renders every error as {"detail": ...}.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"detail": detail})
}
