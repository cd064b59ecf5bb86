package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/stress"
)

// ReportRow is one student's line in the admin report.
type ReportRow struct {
	UserID        string  `json:"user_id"`
	StudentID     string  `json:"student_id"`
	Name          string  `json:"name"`
	Level         string  `json:"level"`
	Department    string  `json:"department"`
	TotalTasks    int     `json:"total_tasks"`
	TotalStress   float64 `json:"total_stress"`
	LiveStress    bool    `json:"live_stress"`
	StressDisplay string  `json:"stress_display"`
	OnTimeRate    int     `json:"on_time_rate"`
	OverdueRate   int     `json:"overdue_rate"`
}

// BuildReports computes one row per student for tasks and logs dated in
// [start, end] at day granularity. Tasks and logs without an owner are
// ignored.
//
// A completed task counts on time when it was finished by the end of its
// due day, or when either timestamp is unknown; otherwise it counts
// overdue, as does every missing task. Rates are rounded percentages of the
// in-range task count (at least 1). TotalStress prefers the student's live
// percentage, then the live 1–5 level converted to a percentage, then the
// sum of logged levels.
func BuildReports(students []student.Student, tasks []task.Task, logs []stresslog.Entry, start, end, now time.Time) []ReportRow {
	start, end = stress.OrderRange(start, end)
	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1).Add(-time.Nanosecond)
	inRange := func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}

	tasksByOwner := make(map[string][]task.Task)
	for _, t := range tasks {
		if t.OwnerID == "" {
			continue
		}
		d, ok := t.Date()
		if !ok || !inRange(startOfDay(d.In(from.Location()))) {
			continue
		}
		tasksByOwner[t.OwnerID] = append(tasksByOwner[t.OwnerID], t)
	}

	levelsByOwner := make(map[string]float64)
	for _, e := range logs {
		if e.OwnerID == "" || !inRange(e.Timestamp) {
			continue
		}
		levelsByOwner[e.OwnerID] += float64(e.Level)
	}

	rows := make([]ReportRow, 0, len(students))
	for _, s := range students {
		owned := tasksByOwner[s.ID]
		onTime, overdue := punctuality(owned, now)
		considered := math.Max(float64(len(owned)), 1)

		row := ReportRow{
			UserID:      s.ID,
			StudentID:   s.StudentNumber,
			Name:        s.Name,
			Level:       s.YearLevel,
			Department:  s.Department,
			TotalTasks:  len(owned),
			OnTimeRate:  int(stress.Round(float64(onTime)/considered*100, 0)),
			OverdueRate: int(stress.Round(float64(overdue)/considered*100, 0)),
		}
		if row.StudentID == "" {
			row.StudentID = s.ID
		}

		if live, ok := liveStressPercent(s); ok {
			row.TotalStress = live
			row.LiveStress = true
			row.StressDisplay = fmt.Sprintf("%d%%", int(stress.Round(live, 0)))
		} else {
			row.TotalStress = levelsByOwner[s.ID]
			row.StressDisplay = strconv.FormatFloat(row.TotalStress, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	return rows
}

func punctuality(tasks []task.Task, now time.Time) (onTime, overdue int) {
	for _, t := range tasks {
		switch task.DeriveStatus(t, now) {
		case task.StatusCompleted, task.StatusDoneLate:
			due, hasDue := t.Due()
			if !hasDue || t.CompletedAt == nil || t.CompletedAt.IsZero() {
				if t.Status == task.StatusDoneLate {
					overdue++
				} else {
					onTime++
				}
				continue
			}
			endOfDue := startOfDay(due).AddDate(0, 0, 1).Add(-time.Nanosecond)
			if t.CompletedAt.After(endOfDue) {
				overdue++
			} else {
				onTime++
			}
		case task.StatusMissing:
			overdue++
		}
	}
	return onTime, overdue
}

func liveStressPercent(s student.Student) (float64, bool) {
	if s.StressPercentage != nil && *s.StressPercentage > 0 {
		return *s.StressPercentage, true
	}
	if s.StressLevel != nil && *s.StressLevel > 0 {
		return stresslog.LevelToPercent(*s.StressLevel), true
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DepartmentDistribution counts students per department, largest first.
// Students without a department are counted as "Unassigned".
func DepartmentDistribution(students []student.Student) []stress.Slice {
	counts := make(map[string]int)
	for _, s := range students {
		dept := s.Department
		if dept == "" {
			dept = "Unassigned"
		}
		counts[dept]++
	}
	out := make([]stress.Slice, 0, len(counts))
	for name, n := range counts {
		out = append(out, stress.Slice{Name: name, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

var reportHeader = []string{
	"Student ID", "Name", "Level", "Department", "Total Task", "Total Stress", "On-time Task Rate", "Overdue Task Rate",
}

// WriteReportsCSV writes rows in the report export layout.
func WriteReportsCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.StudentID,
			r.Name,
			r.Level,
			r.Department,
			strconv.Itoa(r.TotalTasks),
			r.StressDisplay,
			strconv.Itoa(r.OnTimeRate) + "%",
			strconv.Itoa(r.OverdueRate) + "%",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
