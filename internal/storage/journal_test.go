package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.Migrate(context.Background()))
	return j
}

func TestSQLiteJournal_Migrate(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	version, err := j.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, j.Migrate(ctx))
}

func TestNewSQLiteJournal_Validation(t *testing.T) {
	_, err := NewSQLiteJournal("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteJournal_ModelEvents(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := model.ModelInfo{Version: "v1", Samples: 8, Labels: []model.Category{"Bills", "Food"}, TrainedAt: base}
	second := model.ModelInfo{Version: "v2", Samples: 11, Labels: []model.Category{"Bills", "Food", "Health"}, TrainedAt: base.Add(time.Hour)}

	require.NoError(t, j.RecordModel(ctx, first, 0))
	j.ModelPublished(ctx, second, 3)

	events, err := j.ListModelEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "v2", events[0].ModelVersion)
	assert.Equal(t, 11, events[0].Samples)
	assert.Equal(t, 3, events[0].NewSamples)
	assert.Equal(t, second.Labels, events[0].Labels)
	assert.True(t, second.TrainedAt.Equal(events[0].TrainedAt))
	assert.Equal(t, "v1", events[1].ModelVersion)

	events, err = j.ListModelEvents(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteJournal_RecordModelValidation(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	tests := []struct {
		name string
		info model.ModelInfo
	}{
		{name: "missing version", info: model.ModelInfo{Samples: 8, TrainedAt: time.Now()}},
		{name: "no samples", info: model.ModelInfo{Version: "v1", TrainedAt: time.Now()}},
		{name: "no time", info: model.ModelInfo{Version: "v1", Samples: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, j.RecordModel(ctx, tt.info, 0), ErrInvalidEvent)
		})
	}
}

func TestSQLiteJournal_Classifications(t *testing.T) {
	j := createTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.RecordClassification(ctx, "Uber", "", model.Prediction{ModelVersion: "v1", Category: "Travel", Confidence: 0.61}))
	require.NoError(t, j.RecordClassification(ctx, "Taxi", "airport", model.Prediction{ModelVersion: "v1", Category: "Travel", Confidence: 0.55}))
	require.NoError(t, j.RecordClassification(ctx, "Pizza", "", model.Prediction{ModelVersion: "v1", Category: "Food", Confidence: 0.7}))

	counts, err := j.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.Category]int{"Travel": 2, "Food": 1}, counts)

	err = j.RecordClassification(ctx, "Bad", "", model.Prediction{ModelVersion: "v1", Category: "Food", Confidence: 1.5})
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}
