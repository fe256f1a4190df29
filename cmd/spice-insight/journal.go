package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/spice-insight/internal/cli"
	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/Veraticus/spice-insight/internal/storage"
	"github.com/spf13/cobra"
)

func journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show journaled model publishes and prediction counts",
		Long: `Read the SQLite journal written by "serve" when database.path is set and
show recent model publishes and how often each category was predicted.`,
		Args: cobra.NoArgs,
		RunE: runJournal,
	}

	cmd.Flags().IntP("limit", "n", 10, "number of model publishes to show")

	return cmd
}

func runJournal(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Path == "" {
		return errors.New("no journal configured: set database.path or SPICE_INSIGHT_DATABASE_PATH")
	}

	journal, err := storage.NewSQLiteJournal(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	if err := journal.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}

	events, err := journal.ListModelEvents(ctx, limit)
	if err != nil {
		return err
	}
	counts, err := journal.CategoryCounts(ctx)
	if err != nil {
		return err
	}

	models := make([]model.ModelInfo, len(events))
	for i, ev := range events {
		models[i] = model.ModelInfo{
			Version:   ev.ModelVersion,
			TrainedAt: ev.TrainedAt,
			Labels:    ev.Labels,
			Samples:   ev.Samples,
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderJournal(models, counts))
	return nil
}
