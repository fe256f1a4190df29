package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	err   error
	text  string
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	valid := pngBytes(t)

	format, err := ValidateImage("image/png", valid)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	// The declared subtype does not have to match the bytes.
	_, err = ValidateImage("Image/JPEG", valid)
	assert.NoError(t, err)

	_, err = ValidateImage("application/pdf", valid)
	assert.ErrorIs(t, err, common.ErrNotAnImage)
	assert.Equal(t, "Please upload an image file.", common.UserMessage(err))

	_, err = ValidateImage("", valid)
	assert.ErrorIs(t, err, common.ErrNotAnImage)

	_, err = ValidateImage("image/png", []byte("definitely not a png"))
	assert.ErrorIs(t, err, common.ErrUnreadableImage)

	_, err = ValidateImage("image/png", nil)
	assert.ErrorIs(t, err, common.ErrUnreadableImage)
}

func TestScanner_Scan(t *testing.T) {
	rec := &fakeRecognizer{text: "Corner Cafe\nLatte 4,50\nTotal 4,50\n"}
	s := NewScanner(rec, nil)

	ext, err := s.Scan(context.Background(), "image/png", pngBytes(t))
	require.NoError(t, err)
	require.NotNil(t, ext.Amount)
	assert.InDelta(t, 4.50, *ext.Amount, 1e-9)
	assert.Len(t, ext.Items, 3)
	assert.Equal(t, rec.text, ext.RawText)

	t.Run("invalid uploads never reach the engine", func(t *testing.T) {
		rec := &fakeRecognizer{}
		s := NewScanner(rec, nil)
		_, err := s.Scan(context.Background(), "text/plain", []byte("hello"))
		assert.ErrorIs(t, err, common.ErrNotAnImage)
		assert.Zero(t, rec.calls)
	})

	t.Run("engine errors keep their kind", func(t *testing.T) {
		for _, want := range []error{common.ErrOCREngineUnavailable, common.ErrOCRProcessingFailed} {
			s := NewScanner(&fakeRecognizer{err: want}, nil)
			_, err := s.Scan(context.Background(), "image/png", pngBytes(t))
			assert.ErrorIs(t, err, want)
		}
	})

	t.Run("garbled text yields empty results", func(t *testing.T) {
		s := NewScanner(&fakeRecognizer{text: "~~ ^^\n\x01"}, nil)
		ext, err := s.Scan(context.Background(), "image/png", pngBytes(t))
		require.NoError(t, err)
		assert.Nil(t, ext.Amount)
		assert.Equal(t, []string{"~~ ^^"}, ext.Items)
	})
}

func TestTesseract_Unavailable(t *testing.T) {
	tess := NewTesseract(filepath.Join(t.TempDir(), "no-such-tesseract"), "")

	_, err := tess.Recognize(context.Background(), pngBytes(t))
	require.ErrorIs(t, err, common.ErrOCREngineUnavailable)
	assert.Equal(t, common.KindEnvironment, common.Kind(err))
	assert.Contains(t, common.UserMessage(err), "Tesseract OCR is not installed")
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700))
	return path
}

func TestTesseract_WithFakeBinary(t *testing.T) {
	t.Run("stdout is returned", func(t *testing.T) {
		tess := NewTesseract(writeScript(t, `cat >/dev/null; printf 'Total 9,99\n'`), "eng")
		text, err := tess.Recognize(context.Background(), pngBytes(t))
		require.NoError(t, err)
		assert.Equal(t, "Total 9,99\n", text)
	})

	t.Run("non-zero exit is a processing failure", func(t *testing.T) {
		tess := NewTesseract(writeScript(t, `cat >/dev/null; echo 'Error in pixReadMem' >&2; exit 1`), "eng")
		_, err := tess.Recognize(context.Background(), pngBytes(t))
		require.ErrorIs(t, err, common.ErrOCRProcessingFailed)
		assert.Contains(t, err.Error(), "pixReadMem")
	})

	t.Run("missing language data is an environment problem", func(t *testing.T) {
		tess := NewTesseract(writeScript(t, `cat >/dev/null; echo 'Failed loading language xyz' >&2; exit 1`), "xyz")
		_, err := tess.Recognize(context.Background(), pngBytes(t))
		assert.ErrorIs(t, err, common.ErrOCREngineUnavailable)
	})
}

func TestRateLimited(t *testing.T) {
	rec := &fakeRecognizer{text: "ok"}
	limited := NewRateLimited(rec, 1)
	defer limited.Close()

	text, err := limited.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = limited.Recognize(ctx, nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, rec.calls)
}
