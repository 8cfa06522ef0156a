package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"example.com/trainingstats/internal/domain"
)

// UnknownExerciseTitle labels progress for exercises the lookup cannot resolve.
const UnknownExerciseTitle = "Unknown exercise"

const (
	defaultLookbackDays = 30
	defaultRecentDays   = 15
)

// ExerciseProgress compares the recent best weight for one exercise with the prior best.
type ExerciseProgress struct {
	ExerciseID  uuid.UUID `json:"exercise_id"`
	Title       string    `json:"title"`
	CurrentMax  float64   `json:"current_max"`
	PreviousMax float64   `json:"previous_max"`
	Improvement float64   `json:"improvement"`
	IsNewPR     bool      `json:"is_new_pr"`
}

// OverloadOptions configures the analysis windows in days.
type OverloadOptions struct {
	LookbackDays int
	RecentDays   int
}

func (o OverloadOptions) withDefaults() OverloadOptions {
	if o.LookbackDays <= 0 {
		o.LookbackDays = defaultLookbackDays
	}
	if o.RecentDays <= 0 || o.RecentDays > o.LookbackDays {
		o.RecentDays = defaultRecentDays
		if o.RecentDays > o.LookbackDays {
			o.RecentDays = o.LookbackDays
		}
	}
	return o
}

// Overload is the sorted result of ProgressiveOverload.
type Overload []ExerciseProgress

// Top returns at most n leading entries.
func (o Overload) Top(n int) Overload {
	if n < 0 || n >= len(o) {
		return o
	}
	return o[:n]
}

type weightRange struct {
	current  float64
	previous float64
}

// ProgressiveOverload splits the lookback window into a recent and a prior
// part and compares each exercise's best completed weight across them.
// Exercises with no completed weight in the recent part are omitted.
func ProgressiveOverload(records []domain.WorkoutRecord, now time.Time, lookup domain.ExerciseLookup, opts OverloadOptions) Overload {
	opts = opts.withDefaults()
	window := LastDays(now, opts.LookbackDays)
	recentStart := now.AddDate(0, 0, -opts.RecentDays)

	ranges := make(map[uuid.UUID]*weightRange)
	for _, record := range records {
		if !window.Includes(record) {
			continue
		}
		recent := !record.Start.Before(recentStart)
		for _, entry := range record.Exercises {
			r, ok := ranges[entry.ExerciseID]
			if !ok {
				r = &weightRange{}
				ranges[entry.ExerciseID] = r
			}
			weight := entry.MaxCompletedWeight()
			if recent {
				r.current = max(r.current, weight)
			} else {
				r.previous = max(r.previous, weight)
			}
		}
	}

	out := make(Overload, 0, len(ranges))
	for id, r := range ranges {
		if r.current <= 0 {
			continue
		}
		progress := ExerciseProgress{
			ExerciseID:  id,
			Title:       UnknownExerciseTitle,
			CurrentMax:  r.current,
			PreviousMax: r.previous,
			IsNewPR:     r.current > r.previous && r.previous > 0,
		}
		if r.previous > 0 {
			progress.Improvement = (r.current - r.previous) / r.previous * 100
		}
		if lookup != nil {
			if def, ok := lookup.Find(id); ok && def.Title != "" {
				progress.Title = def.Title
			}
		}
		out = append(out, progress)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Improvement != out[j].Improvement {
			return out[i].Improvement > out[j].Improvement
		}
		return out[i].ExerciseID.String() < out[j].ExerciseID.String()
	})
	return out
}
