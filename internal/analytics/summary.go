package analytics

import (
	"time"

	"example.com/trainingstats/internal/domain"
)

// ActivitySummary totals a window of training.
type ActivitySummary struct {
	Window      Window        `json:"window"`
	Workouts    int           `json:"workouts"`
	Duration    time.Duration `json:"duration"`
	Sets        int           `json:"sets"`
	Repetitions int           `json:"repetitions"`
	Volume      float64       `json:"volume"`
}

// Summarize totals finished records starting inside the window. Records
// without an end time add nothing to Duration.
func Summarize(records []domain.WorkoutRecord, window Window, metric domain.VolumeMetric) ActivitySummary {
	summary := ActivitySummary{Window: window}
	for _, record := range records {
		if !window.Includes(record) {
			continue
		}
		summary.Workouts++
		summary.Duration += record.Duration()
		summary.Sets += record.CompletedSets()
		summary.Repetitions += record.CompletedRepetitions()
		summary.Volume += record.CompletedVolume(metric)
	}
	return summary
}
