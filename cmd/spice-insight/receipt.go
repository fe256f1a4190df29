package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spice-insight/internal/cli"
	"github.com/Veraticus/spice-insight/internal/ocr"
	"github.com/spf13/cobra"
)

func receiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <image>",
		Short: "Read the total and line items off a receipt photo",
		Long: `Run tesseract over a receipt image and extract the amount and the first
few line items. Requires the tesseract binary (set ocr.tesseract_path or
TESSERACT_CMD if it isn't on PATH).`,
		Args: cobra.ExactArgs(1),
		RunE: runReceipt,
	}
}

func runReceipt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	recognizer := newRecognizer(cfg)
	defer recognizer.Close()

	scanner := ocr.NewScanner(recognizer, slog.Default())
	ext, err := scanner.Scan(cmd.Context(), mediaType(args[0], data), data)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderExtraction(ext))
	return nil
}

// mediaType sniffs the content, then checks for tiff, then falls back to the
// file extension.
func mediaType(path string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff"
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return byExt
	}
	return sniffed
}
