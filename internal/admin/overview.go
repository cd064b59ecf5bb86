// Package admin aggregates tasks and stress logs across every user for the
// administrator dashboard and the per-student reports.
package admin

import (
	"time"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// SeriesPoint is the mean self-reported stress level of one period.
type SeriesPoint struct {
	Label  string  `json:"label"`
	Key    string  `json:"key"`
	Stress float64 `json:"stress"`
	Count  int     `json:"count"`
}

// WorkloadPoint pairs the number of tasks filed in a period with the mean
// stress level logged in it.
type WorkloadPoint struct {
	Label    string  `json:"label"`
	Workload int     `json:"workload"`
	Stress   float64 `json:"stress"`
}

// Trend is the workload/stress regression over the overview periods.
type Trend struct {
	Model      stress.Model        `json:"model"`
	Points     []stress.TrendPoint `json:"points"`
	Projection *stress.Projection  `json:"projection,omitempty"`
	Insight    string              `json:"insight"`
}

// Overview is the cross-user dashboard payload.
type Overview struct {
	StatusCounts     stress.StatusTotals `json:"status_counts"`
	PriorityDist     []stress.Slice      `json:"priority_distribution"`
	StressSeries     []SeriesPoint       `json:"stress_series"`
	WorkloadVsStress []WorkloadPoint     `json:"workload_vs_stress"`
	StressorDist     []stress.TagShare   `json:"stressor_distribution"`
	Trend            Trend               `json:"trend"`
}

// AggregateAcrossUsers builds the admin overview. Every task and log counts
// equally regardless of owner. Stress levels are averaged per period and
// rounded to one decimal; workload is the number of tasks filed (by due
// date, else start date) in the period.
func AggregateAcrossUsers(tasks []task.Task, logs []stresslog.Entry, periods []stress.Period, now time.Time) Overview {
	logBuckets := stress.Aggregate(logs, periods,
		func(e stresslog.Entry) (time.Time, bool) { return e.Timestamp, !e.Timestamp.IsZero() },
		func(e stresslog.Entry) float64 { return float64(e.Level) },
	)
	workload := stress.CountPerPeriod(tasks, periods, func(t task.Task) (time.Time, bool) { return t.Date() })

	series := make([]SeriesPoint, len(logBuckets))
	correlation := make([]WorkloadPoint, len(periods))
	regression := make([]stress.Bucket, len(periods))
	for i, b := range logBuckets {
		level := stress.Round(b.Stress, 1)
		series[i] = SeriesPoint{Label: b.Period.Label, Key: b.Period.Key, Stress: level, Count: b.Count}
		correlation[i] = WorkloadPoint{Label: b.Period.Label, Workload: workload[i], Stress: level}
		regression[i] = stress.Bucket{Period: b.Period, Stress: level, Workload: workload[i], Count: b.Count}
	}

	tagSets := make([][]string, 0, len(logs))
	for _, e := range logs {
		tagSets = append(tagSets, e.Tags)
	}

	return Overview{
		StatusCounts:     stress.StatusCounts(tasks, now),
		PriorityDist:     stress.PriorityDistribution(tasks),
		StressSeries:     series,
		WorkloadVsStress: correlation,
		StressorDist:     stress.TagDistribution(tagSets),
		Trend:            buildTrend(regression),
	}
}

func buildTrend(buckets []stress.Bucket) Trend {
	model := stress.Fit(buckets)
	points := stress.PredictSeries(buckets, model)
	tr := Trend{
		Model:   model,
		Points:  points,
		Insight: stress.Insight(model, points),
	}
	if proj, ok := stress.ProjectNext(buckets, model); ok {
		tr.Projection = &proj
	}
	return tr
}
