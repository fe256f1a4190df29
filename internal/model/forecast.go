package model

// TrendDirection is the sign of the fitted slope.
type TrendDirection string

// Trend directions.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendSteady     TrendDirection = "steady"
)

// MonthlyTotal is one period of spend. Position in the history slice is the
// time axis; Period is never parsed.
type MonthlyTotal struct {
	Period string
	Total  float64
}

// ForecastResult is the projection for the period after the history.
type ForecastResult struct {
	PredictedPeriod string
	Direction       TrendDirection
	Explanation     string
	PredictedTotal  float64
	Slope           float64
	Magnitude       float64 // |Slope|, per period
	Periods         int
}
