// Package forecast projects next-period spend from a short series of totals.
package forecast

import (
	"fmt"
	"math"

	"github.com/Veraticus/spice-insight/internal/common"
	"github.com/Veraticus/spice-insight/internal/model"
)

// MinPeriods is the shortest history a line can be fit to.
const MinPeriods = 2

// NextPeriodLabel is used for the predicted period; no calendar math is done.
const NextPeriodLabel = "Next Month"

// Forecast fits total = slope*index + intercept by ordinary least squares,
// where index is the position in history, and predicts index len(history).
//
// The trend is classified by the exact sign of the slope. A practically flat
// series can still come out increasing or decreasing from float noise.
func Forecast(history []model.MonthlyTotal) (model.ForecastResult, error) {
	n := len(history)
	if n < MinPeriods {
		return model.ForecastResult{}, fmt.Errorf("%w: need at least %d months of history to predict, got %d",
			common.ErrInsufficientHistory, MinPeriods, n)
	}

	var sumY float64
	for i, m := range history {
		if math.IsNaN(m.Total) || math.IsInf(m.Total, 0) {
			return model.ForecastResult{}, fmt.Errorf("%w: total for %q at position %d is not a finite number",
				common.ErrInvalidHistory, m.Period, i)
		}
		sumY += m.Total
	}

	meanX := float64(n-1) / 2
	meanY := sumY / float64(n)

	var sxy, sxx float64
	for i, m := range history {
		dx := float64(i) - meanX
		sxy += dx * (m.Total - meanY)
		sxx += dx * dx
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX
	predicted := slope*float64(n) + intercept

	direction := Direction(slope)
	magnitude := math.Abs(slope)

	return model.ForecastResult{
		PredictedPeriod: NextPeriodLabel,
		PredictedTotal:  math.Round(predicted*100) / 100,
		Direction:       direction,
		Slope:           slope,
		Magnitude:       magnitude,
		Periods:         n,
		Explanation: fmt.Sprintf("Detected a %s trend of $%.2f per month. Based on %d months of data.",
			direction, magnitude, n),
	}, nil
}

// Direction classifies a slope by its sign, with no tolerance around zero.
func Direction(slope float64) model.TrendDirection {
	switch {
	case slope > 0:
		return model.TrendIncreasing
	case slope < 0:
		return model.TrendDecreasing
	default:
		return model.TrendSteady
	}
}
