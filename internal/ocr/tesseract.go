package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Veraticus/spice-insight/internal/common"
)

const installGuidance = "Tesseract OCR is not installed. Please install Tesseract OCR on your system " +
	"(https://github.com/tesseract-ocr/tesseract) and set ocr.tesseract_path or TESSERACT_CMD to the binary path."

// Tesseract runs the tesseract command line engine.
type Tesseract struct {
	Path     string
	Language string
}

// NewTesseract creates a recognizer for the binary at path.
func NewTesseract(path, language string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Path: path, Language: language}
}

// Recognize pipes image into tesseract and returns its stdout.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	bin, err := exec.LookPath(t.Path)
	if err != nil {
		return "", common.NewUserError(installGuidance,
			fmt.Errorf("%w: %w", common.ErrOCREngineUnavailable, err))
	}

	cmd := exec.CommandContext(ctx, bin, "stdin", "stdout", "-l", t.Language)
	cmd.Stdin = bytes.NewReader(image)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isMissingLanguage(msg) {
			return "", common.NewUserError(fmt.Sprintf("Tesseract is missing language data for %q", t.Language),
				fmt.Errorf("%w: %s", common.ErrOCREngineUnavailable, msg))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", common.NewUserError(fmt.Sprintf("OCR processing failed: %v", err),
			fmt.Errorf("%w: %w", common.ErrOCRProcessingFailed, err))
	}

	return stdout.String(), nil
}

func isMissingLanguage(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "failed loading language") ||
		strings.Contains(lower, "could not initialize tesseract")
}
