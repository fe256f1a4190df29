package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-insight/internal/cli"
	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/forecast"
	"github.com/Veraticus/spice-insight/internal/model"
	"github.com/Veraticus/spice-insight/internal/ofx"
	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast [period=total...]",
		Short: "Project next month's spending",
		Long: `Fit a linear trend to monthly spending totals and project the next month.

Totals come either from arguments or from an OFX/QFX bank export, where
debits are summed per calendar month.

Examples:
  spice-insight forecast Jan=1200 Feb=1350 Mar=1500
  spice-insight forecast --ofx ~/Downloads/checking.qfx`,
		RunE: runForecast,
	}

	cmd.Flags().String("ofx", "", "OFX/QFX file to derive monthly totals from")

	return cmd
}

func runForecast(cmd *cobra.Command, args []string) error {
	ofxPath, _ := cmd.Flags().GetString("ofx")

	var (
		history []model.MonthlyTotal
		err     error
	)
	switch {
	case ofxPath != "" && len(args) > 0:
		return errors.New("use either period=total arguments or --ofx, not both")
	case ofxPath != "":
		history, err = historyFromOFX(cmd, ofxPath)
	default:
		history, err = parseHistory(args)
	}
	if err != nil {
		return err
	}

	result, err := forecast.Forecast(history)
	if err != nil {
		if errors.Is(err, common.ErrInsufficientHistory) {
			return common.NewUserError(fmt.Sprintf("Need at least %d months of totals to forecast.", forecast.MinPeriods), err)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderForecast(history, result))
	return nil
}

func historyFromOFX(cmd *cobra.Command, path string) ([]model.MonthlyTotal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	txns, err := ofx.NewParser().ParseFile(cmd.Context(), f)
	if err != nil {
		return nil, err
	}
	return ofx.MonthlyTotals(txns), nil
}

// parseHistory reads period=total pairs in order.
func parseHistory(args []string) ([]model.MonthlyTotal, error) {
	history := make([]model.MonthlyTotal, 0, len(args))
	for _, arg := range args {
		period, total, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(period) == "" {
			return nil, fmt.Errorf("%w: expected period=total, got %q", common.ErrInvalidHistory, arg)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(total), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: total for %q is not a number", common.ErrInvalidHistory, period)
		}
		history = append(history, model.MonthlyTotal{Period: strings.TrimSpace(period), Total: value})
	}
	return history, nil
}
