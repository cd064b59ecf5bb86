package stress

import (
	"fmt"
	"math"
)

// MinimalSlope is the slope magnitude below which workload is considered
// to have no meaningful effect on stress.
const MinimalSlope = 0.03

// MaxStressLevel is the top of the 1–5 stress scale projections are capped to.
const MaxStressLevel = 5.0

// Model is a least-squares line stress = Slope*workload + Intercept.
// A model that is not Valid has zero slope and intercept and predicts Mean.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Valid     bool    `json:"valid"`
	Mean      float64 `json:"mean"`
}

// Predict returns the modelled stress for a workload.
func (m Model) Predict(workload float64) float64 {
	if !m.Valid {
		return m.Mean
	}
	return m.Slope*workload + m.Intercept
}

// Fit runs ordinary least squares over (Workload, Stress) of the buckets.
// With fewer than two buckets carrying data, or identical workloads, the
// model is flat at the mean stress.
func Fit(buckets []Bucket) Model {
	n := float64(len(buckets))
	var sumX, sumY, sumXY, sumXX float64
	withData := 0
	for _, b := range buckets {
		x, y := float64(b.Workload), b.Stress
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		if b.Workload != 0 || b.Stress != 0 {
			withData++
		}
	}

	flat := Model{Mean: SafeDiv(sumY, n)}
	if len(buckets) < 2 || withData < 2 {
		return flat
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return flat
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return flat
	}
	return Model{Slope: slope, Intercept: intercept, Valid: true, Mean: flat.Mean}
}

// TrendPoint is one period with its observed and modelled stress.
type TrendPoint struct {
	Label     string  `json:"label"`
	Workload  int     `json:"workload"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// PredictSeries pairs every bucket's actual stress with the model's
// prediction, rounded to two decimals.
func PredictSeries(buckets []Bucket, m Model) []TrendPoint {
	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, TrendPoint{
			Label:     b.Period.Label,
			Workload:  b.Workload,
			Actual:    b.Stress,
			Predicted: Round(m.Predict(float64(b.Workload)), 2),
		})
	}
	return points
}

// Projection is the predicted stress for the next period.
type Projection struct {
	Workload int     `json:"workload"`
	Stress   float64 `json:"stress"`
}

// ProjectNext predicts stress for one more unit of workload than the last
// bucket, clamped to [0, 5] and rounded to one decimal. It returns false
// when there are fewer than two buckets.
func ProjectNext(buckets []Bucket, m Model) (Projection, bool) {
	if len(buckets) < 2 {
		return Projection{}, false
	}
	next := buckets[len(buckets)-1].Workload + 1
	return Projection{
		Workload: next,
		Stress:   Round(Clamp(m.Predict(float64(next)), 0, MaxStressLevel), 1),
	}, true
}

// Insight describes the fitted trend in one sentence.
func Insight(m Model, points []TrendPoint) string {
	hasData := false
	for _, p := range points {
		if p.Workload > 0 || p.Actual > 0 {
			hasData = true
			break
		}
	}
	if !hasData {
		return "Not enough data to compute a trend."
	}

	last := points[len(points)-1]
	direction := "decrease"
	if last.Predicted > last.Actual {
		direction = "increase"
	}

	switch {
	case math.Abs(m.Slope) < MinimalSlope:
		return "Predicted impact is minimal: stress changes are weakly tied to workload."
	case m.Slope > 0:
		projected := math.Min(MaxStressLevel, last.Predicted+m.Slope*2)
		return fmt.Sprintf("If current workload continues, stress may %s to %.1f by Friday. Consider taking breaks to manage stress levels.",
			direction, projected)
	default:
		return fmt.Sprintf("Model suggests stress will %s. Keep up the good work with task management!", direction)
	}
}
