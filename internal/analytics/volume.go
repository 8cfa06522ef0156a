package analytics

import (
	"math"
	"time"

	"example.com/trainingstats/internal/domain"
)

// changeEpsilon is the magnitude below which a percent change is reported as zero.
const changeEpsilon = 0.001

// VolumeSummary aggregates completed work inside a window.
type VolumeSummary struct {
	Window      Window  `json:"window"`
	Volume      float64 `json:"volume"`
	Workouts    int     `json:"workouts"`
	Sets        int     `json:"sets"`
	Repetitions int     `json:"repetitions"`
}

// Volume sums completed-set volume over finished records starting inside the window.
func Volume(records []domain.WorkoutRecord, window Window, metric domain.VolumeMetric) VolumeSummary {
	summary := VolumeSummary{Window: window}
	for _, record := range records {
		if !window.Includes(record) {
			continue
		}
		summary.Workouts++
		summary.Volume += record.CompletedVolume(metric)
		summary.Sets += record.CompletedSets()
		summary.Repetitions += record.CompletedRepetitions()
	}
	return summary
}

// PercentChange returns current/previous - 1. The boolean is false when
// previous is not positive and the change is undefined.
func PercentChange(current, previous float64) (float64, bool) {
	if previous <= 0 {
		return 0, false
	}
	change := current/previous - 1
	if math.Abs(change) < changeEpsilon {
		return 0, true
	}
	return change, true
}

// Comparison pairs a period's volume with the preceding period.
type Comparison struct {
	Period   Period        `json:"period"`
	Current  VolumeSummary `json:"current"`
	Previous VolumeSummary `json:"previous"`
	// Change is nil when the previous period has no volume.
	Change *float64 `json:"change"`
}

// Compare builds a Comparison from two summaries.
func Compare(period Period, current, previous VolumeSummary) Comparison {
	out := Comparison{Period: period, Current: current, Previous: previous}
	if change, ok := PercentChange(current.Volume, previous.Volume); ok {
		out.Change = &change
	}
	return out
}

// ComparePeriods computes the week and month comparisons ending at now.
func ComparePeriods(records []domain.WorkoutRecord, now time.Time, calendar Calendar, metric domain.VolumeMetric) (week, month Comparison) {
	current, previous := calendar.CurrentAndPrevious(PeriodWeek, now)
	week = Compare(PeriodWeek, Volume(records, current, metric), Volume(records, previous, metric))

	current, previous = calendar.CurrentAndPrevious(PeriodMonth, now)
	month = Compare(PeriodMonth, Volume(records, current, metric), Volume(records, previous, metric))
	return week, month
}
