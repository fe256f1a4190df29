package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/forecast"
	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/gofiber/fiber/v3"
)

type handlers struct {
	deps   Dependencies
	logger *slog.Logger
}

type categorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type categorizeResponse struct {
	Category     string  `json:"category"`
	ModelVersion string  `json:"modelVersion"`
	Confidence   float64 `json:"confidence"`
}

type trainingItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type retrainRequest struct {
	UserID       string         `json:"user_id"`
	TrainingData []trainingItem `json:"training_data"`
}

type retrainResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	ModelVersion    string `json:"modelVersion"`
	TrainingSamples int    `json:"training_samples"`
	NewSamples      int    `json:"new_samples"`
}

type modelResponse struct {
	Version   string   `json:"version"`
	TrainedAt string   `json:"trainedAt"`
	Labels    []string `json:"labels"`
	Samples   int      `json:"samples"`
}

type ocrResponse struct {
	Amount  *float64 `json:"amount"`
	RawText string   `json:"rawText"`
	Items   []string `json:"items"`
}

type monthlyExpense struct {
	Month string   `json:"month"`
	Total *float64 `json:"total"`
}

type forecastRequest struct {
	History []monthlyExpense `json:"history"`
}

type forecastResponse struct {
	PredictedMonth string  `json:"predictedMonth"`
	Trend          string  `json:"trend"`
	Explanation    string  `json:"explanation"`
	PredictedTotal float64 `json:"predictedTotal"`
	Slope          float64 `json:"slope"`
}

func (h *handlers) categorize(c fiber.Ctx) error {
	var req categorizeRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	p := h.deps.Categorizer.Classify(req.Title, req.Description)

	if h.deps.Recorder != nil {
		if err := h.deps.Recorder.RecordClassification(c.RequestCtx(), req.Title, req.Description, p); err != nil {
			h.logger.Warn("Failed to journal classification", "error", err)
		}
	}

	return c.JSON(categorizeResponse{
		Category:     string(p.Category),
		Confidence:   p.Confidence,
		ModelVersion: p.ModelVersion,
	})
}

func (h *handlers) retrain(c fiber.Ctx) error {
	var req retrainRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	examples := make([]model.TrainingExample, len(req.TrainingData))
	for i, item := range req.TrainingData {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Category) == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("training_data[%d]: title and category are required", i))
		}
		examples[i] = model.TrainingExample{
			Title:       item.Title,
			Description: item.Description,
			Label:       model.Category(strings.TrimSpace(item.Category)),
		}
	}

	samples, err := h.deps.Categorizer.Retrain(c.RequestCtx(), examples)
	if err != nil {
		return h.fail(c, err, "Retraining failed", common.Fields{"user_id": req.UserID})
	}

	return c.JSON(retrainResponse{
		Status:          "success",
		Message:         "Model retrained successfully",
		ModelVersion:    h.deps.Categorizer.Info().Version,
		TrainingSamples: samples,
		NewSamples:      len(examples),
	})
}

func (h *handlers) modelInfo(c fiber.Ctx) error {
	info := h.deps.Categorizer.Info()
	labels := make([]string, len(info.Labels))
	for i, l := range info.Labels {
		labels[i] = string(l)
	}
	return c.JSON(modelResponse{
		Version:   info.Version,
		TrainedAt: info.TrainedAt.Format("2006-01-02T15:04:05Z07:00"),
		Labels:    labels,
		Samples:   info.Samples,
	})
}

func (h *handlers) ocr(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload an image file.")
	}

	f, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read upload")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read upload")
	}

	ext, err := h.deps.Scanner.Scan(c.RequestCtx(), file.Header.Get("Content-Type"), data)
	if err != nil {
		return h.fail(c, err, "OCR processing failed", common.Fields{"filename": file.Filename})
	}

	items := ext.Items
	if items == nil {
		items = []string{}
	}
	return c.JSON(ocrResponse{Amount: ext.Amount, Items: items, RawText: ext.RawText})
}

func (h *handlers) predict(c fiber.Ctx) error {
	var req forecastRequest
	if err := c.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	history := make([]model.MonthlyTotal, len(req.History))
	for i, m := range req.History {
		if m.Total == nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("history[%d]: total is required", i))
		}
		history[i] = model.MonthlyTotal{Period: m.Month, Total: *m.Total}
	}

	result, err := forecast.Forecast(history)
	if err != nil {
		return h.fail(c, err, "Forecast failed", nil)
	}

	return c.JSON(forecastResponse{
		PredictedMonth: result.PredictedPeriod,
		PredictedTotal: result.PredictedTotal,
		Trend:          string(result.Direction),
		Slope:          result.Slope,
		Explanation:    result.Explanation,
	})
}

// fail maps a core error to a status code. Internal errors without a
// user-facing message are reported opaquely.
func (h *handlers) fail(c fiber.Ctx, err error, internalMsg string, fields common.Fields) error {
	kind := common.Kind(err)
	if kind == common.KindInput {
		h.logger.Warn(internalMsg, "error", err, "kind", kind.String())
	} else {
		common.LogError(c.RequestCtx(), h.logger, err, internalMsg, fields)
	}

	switch kind {
	case common.KindInput:
		return fiber.NewError(fiber.StatusBadRequest, common.UserMessage(err))
	case common.KindEnvironment:
		return fiber.NewError(fiber.StatusServiceUnavailable, common.UserMessage(err))
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return fiber.NewError(fiber.StatusInternalServerError, userErr.UserMessage)
	}
	return fiber.NewError(fiber.StatusInternalServerError, internalMsg)
}
