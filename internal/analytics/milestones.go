package analytics

import (
	"fmt"

	"example.com/trainingstats/internal/domain"
)

// MilestoneProgress reports how far lifetime volume has come along the milestone table.
type MilestoneProgress struct {
	Total          float64            `json:"total"`
	Achieved       []domain.Milestone `json:"achieved"`
	Next           *domain.Milestone  `json:"next,omitempty"`
	ProgressToNext float64            `json:"progress_to_next"`
}

// Latest returns the highest achieved milestone.
func (p MilestoneProgress) Latest() (domain.Milestone, bool) {
	if len(p.Achieved) == 0 {
		return domain.Milestone{}, false
	}
	return p.Achieved[len(p.Achieved)-1], true
}

// LifetimeVolume sums completed volume across every finished record.
func LifetimeVolume(records []domain.WorkoutRecord, metric domain.VolumeMetric) float64 {
	var total float64
	for _, record := range records {
		if record.Finished() {
			total += record.CompletedVolume(metric)
		}
	}
	return total
}

// TrackMilestones locates total on an ascending milestone table.
func TrackMilestones(total float64, table []domain.Milestone) MilestoneProgress {
	progress := MilestoneProgress{Total: total, Achieved: []domain.Milestone{}}
	var floor float64
	for i := range table {
		if table[i].Weight <= total {
			progress.Achieved = append(progress.Achieved, table[i])
			floor = table[i].Weight
			continue
		}
		next := table[i]
		progress.Next = &next
		break
	}

	if progress.Next == nil {
		progress.ProgressToNext = 1
		return progress
	}
	span := progress.Next.Weight - floor
	if span <= 0 {
		return progress
	}
	progress.ProgressToNext = min(max((total-floor)/span, 0), 1)
	return progress
}

// ValidateMilestones checks that thresholds are positive and strictly increasing.
func ValidateMilestones(table []domain.Milestone) error {
	if len(table) == 0 {
		return fmt.Errorf("milestone table is empty")
	}
	for i, m := range table {
		if m.Name == "" {
			return fmt.Errorf("milestone %d: name is required", i)
		}
		if m.Weight <= 0 {
			return fmt.Errorf("milestone %q: weight must be positive", m.Name)
		}
		if i > 0 && m.Weight <= table[i-1].Weight {
			return fmt.Errorf("milestone %q: weight %.0f does not exceed %q", m.Name, m.Weight, table[i-1].Name)
		}
	}
	return nil
}
