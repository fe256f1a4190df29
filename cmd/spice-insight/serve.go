package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-insight/internal/ocr"
	"github.com/Veraticus/spice-insight/internal/server"
	"github.com/Veraticus/spice-insight/internal/storage"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the categorizer, receipt OCR and forecaster over HTTP.

Endpoints:
  GET  /health       liveness and version
  POST /categorize   {"title", "description"} -> category and confidence
  POST /retrain      {"training_data": [...]} -> publishes a new model
  GET  /model        current model version and labels
  POST /ocr          multipart "file" image -> amount, items, raw text
  POST /predict      {"history": [{"month", "total"}]} -> next month forecast`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("address", ":8000", "listen address")
	cmd.Flags().String("db", "", "optional SQLite journal of model and classification events")
	cmd.Flags().Bool("access-log", false, "log every request")

	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("address"))
	_ = viper.BindPFlag("database.path", cmd.Flags().Lookup("db"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	accessLog, _ := cmd.Flags().GetBool("access-log")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	categorizer, err := newCategorizer(cfg)
	if err != nil {
		return err
	}
	defer categorizer.Close()

	var recorder server.ClassificationRecorder
	if cfg.Database.Path != "" {
		journal, err := storage.NewSQLiteJournal(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				slog.Error("Failed to close journal", "error", err)
			}
		}()

		if err := journal.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate journal: %w", err)
		}
		if err := journal.RecordModel(ctx, categorizer.Info(), 0); err != nil {
			slog.Warn("Failed to journal seed model", "error", err)
		}

		categorizer.AddObserver(journal)
		recorder = journal
		slog.Info("Journaling events", "path", cfg.Database.Path)
	}

	recognizer := newRecognizer(cfg)
	defer recognizer.Close()

	app := server.NewHTTPServer(server.Dependencies{
		Categorizer: categorizer,
		Scanner:     ocr.NewScanner(recognizer, slog.Default()),
		Recorder:    recorder,
		Logger:      slog.Default(),
		Version:     version,
		BodyLimit:   cfg.Server.BodyLimitMB * 1024 * 1024,
		AccessLog:   accessLog,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Address, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	info := categorizer.Info()
	slog.Info("🌶️  spice-insight listening",
		"address", cfg.Server.Address,
		"model_version", info.Version,
		"labels", info.Labels,
		"tesseract", cfg.OCR.TesseractPath)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server", "timeout", shutdownTimeout)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
