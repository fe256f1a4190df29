package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-insight/internal/cli"
	"github.com/Veraticus/spice-insight/internal/textclass"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [title] [description]",
		Short: "Predict the category of one expense or a CSV of expenses",
		Long: `Predict expense categories with the built-in model.

Examples:
  # Single expense
  spice-insight categorize "Uber to airport" "ride share"

  # Batch: CSV with title,description columns; results go to stdout as CSV
  spice-insight categorize --file expenses.csv > categorized.csv`,
		Args: cobra.RangeArgs(0, 2),
		RunE: runCategorize,
	}

	cmd.Flags().StringP("file", "f", "", "CSV file with title and description columns")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" && len(args) == 0 {
		return errors.New("provide an expense title or --file")
	}
	if file != "" && len(args) > 0 {
		return errors.New("use either an expense title or --file, not both")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	categorizer, err := newCategorizer(cfg)
	if err != nil {
		return err
	}
	defer categorizer.Close()

	if file == "" {
		title := args[0]
		var description string
		if len(args) > 1 {
			description = args[1]
		}
		p := categorizer.Classify(title, description)
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPrediction(title, p))
		return nil
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	expenses, err := readExpenses(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if len(expenses) == 0 {
		return fmt.Errorf("no expenses found in %s", file)
	}

	bar := progressbar.NewOptions(len(expenses),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Categorizing expenses...[reset]"),
		progressbar.OptionClearOnFinish(),
	)

	predictions, err := categorizer.ClassifyBatch(cmd.Context(), expenses, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	_ = w.Write([]string{"title", "description", "category", "confidence"})
	for i, e := range expenses {
		p := predictions[i]
		_ = w.Write([]string{e.Title, e.Description, string(p.Category), strconv.FormatFloat(p.Confidence, 'f', 3, 64)})
	}
	w.Flush()
	return w.Error()
}

// readExpenses reads title,description rows. A header row naming a "title"
// column is used to locate columns; without one the first two columns are
// title and description.
func readExpenses(r io.Reader) ([]textclass.Expense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	titleCol, descCol := 0, 1
	if header := records[0]; hasColumn(header, "title") {
		titleCol, descCol = columnIndex(header, "title"), columnIndex(header, "description")
		records = records[1:]
	}

	expenses := make([]textclass.Expense, 0, len(records))
	for _, rec := range records {
		title, description := field(rec, titleCol), field(rec, descCol)
		if title == "" && description == "" {
			continue
		}
		expenses = append(expenses, textclass.Expense{Title: title, Description: description})
	}
	return expenses, nil
}

func hasColumn(header []string, name string) bool {
	return columnIndex(header, name) >= 0
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
