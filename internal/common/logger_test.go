package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogError(t *testing.T) {
	tests := []struct {
		err    error
		fields Fields
		name   string
		kind   string
	}{
		{
			name:   "environment",
			err:    fmt.Errorf("recognize: %w", ErrOCREngineUnavailable),
			fields: Fields{"filename": "receipt.png"},
			kind:   "environment",
		},
		{
			name: "internal without fields",
			err:  ErrModelFit,
			kind: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&buf, "info", "json")
			require.NoError(t, err)

			LogError(context.Background(), logger, tt.err, "request failed", tt.fields)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "ERROR", entry["level"])
			assert.Equal(t, "request failed", entry["msg"])
			assert.Equal(t, tt.err.Error(), entry["error"])
			assert.Equal(t, tt.kind, entry["kind"])
			for k, v := range tt.fields {
				assert.Equal(t, v, entry[k])
			}
		})
	}
}
