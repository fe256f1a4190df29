package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/google/uuid"
)

// ModelEvent is one journaled model publish.
type ModelEvent struct {
	TrainedAt    time.Time
	ID           string
	ModelVersion string
	Labels       []model.Category
	Samples      int
	NewSamples   int
}

// ClassificationRecord is one journaled classification.
type ClassificationRecord struct {
	ClassifiedAt time.Time
	ID           string
	Title        string
	Description  string
	Prediction   model.Prediction
}

// RecordModel journals a published model.
func (j *SQLiteJournal) RecordModel(ctx context.Context, info model.ModelInfo, newSamples int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateModelInfo(info); err != nil {
		return err
	}

	labels := make([]string, len(info.Labels))
	for i, l := range info.Labels {
		labels[i] = string(l)
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO model_events (id, model_version, samples, new_samples, labels, trained_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), info.Version, info.Samples, newSamples, strings.Join(labels, "\n"), info.TrainedAt)
	if err != nil {
		return fmt.Errorf("failed to record model event: %w", err)
	}
	return nil
}

// ModelPublished lets the journal observe a categorizer. Failures are logged,
// never propagated, so journaling can't fail a retrain.
func (j *SQLiteJournal) ModelPublished(ctx context.Context, info model.ModelInfo, newSamples int) {
	if err := j.RecordModel(ctx, info, newSamples); err != nil {
		slog.Warn("Failed to journal model publish", "version", info.Version, "error", err)
	}
}

// ListModelEvents returns the most recent publishes, newest first.
func (j *SQLiteJournal) ListModelEvents(ctx context.Context, limit int) ([]ModelEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, model_version, samples, new_samples, labels, trained_at
		FROM model_events
		ORDER BY trained_at DESC, recorded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query model events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []ModelEvent
	for rows.Next() {
		var (
			ev     ModelEvent
			labels string
		)
		if err := rows.Scan(&ev.ID, &ev.ModelVersion, &ev.Samples, &ev.NewSamples, &labels, &ev.TrainedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model event: %w", err)
		}
		for _, l := range strings.Split(labels, "\n") {
			if l != "" {
				ev.Labels = append(ev.Labels, model.Category(l))
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate model events: %w", err)
	}

	return events, nil
}

// RecordClassification journals one classification result.
func (j *SQLiteJournal) RecordClassification(ctx context.Context, title, description string, p model.Prediction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePrediction(p); err != nil {
		return err
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO classifications (id, model_version, title, description, category, confidence, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), p.ModelVersion, title, description, string(p.Category), p.Confidence, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record classification: %w", err)
	}
	return nil
}

// CategoryCounts returns how often each category was predicted.
func (j *SQLiteJournal) CategoryCounts(ctx context.Context) (map[model.Category]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM classifications GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[model.Category(category)] = n
	}
	return counts, rows.Err()
}
