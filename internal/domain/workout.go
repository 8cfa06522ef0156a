package domain

import (
	"time"

	"github.com/google/uuid"
)

// SetTag marks special sets such as drop sets.
type SetTag string

const (
	SetTagNone    SetTag = ""
	SetTagDropSet SetTag = "drop_set"
	SetTagFailure SetTag = "failure"
)

// Valid reports whether the tag is one of the known values.
func (t SetTag) Valid() bool {
	switch t {
	case SetTagNone, SetTagDropSet, SetTagFailure:
		return true
	}
	return false
}

// SetEntry is a single logged set. Weight is stored in kilograms.
type SetEntry struct {
	Weight      float64  `json:"weight"`
	Repetitions int      `json:"repetitions"`
	Completed   bool     `json:"completed"`
	RPE         *float64 `json:"rpe,omitempty"`
	Tag         SetTag   `json:"tag,omitempty"`
}

// ExerciseEntry groups the sets performed for one exercise within a workout.
type ExerciseEntry struct {
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Sets       []SetEntry `json:"sets"`
}

// CompletedSets counts the sets marked as performed.
func (e ExerciseEntry) CompletedSets() int {
	n := 0
	for _, set := range e.Sets {
		if set.Completed {
			n++
		}
	}
	return n
}

// CompletedRepetitions sums repetitions over completed sets.
func (e ExerciseEntry) CompletedRepetitions() int {
	n := 0
	for _, set := range e.Sets {
		if set.Completed {
			n += set.Repetitions
		}
	}
	return n
}

// MaxCompletedWeight returns the heaviest completed set, or 0 when nothing was completed.
func (e ExerciseEntry) MaxCompletedWeight() float64 {
	var max float64
	for _, set := range e.Sets {
		if set.Completed && set.Weight > max {
			max = set.Weight
		}
	}
	return max
}

// CompletedVolume sums the contribution of every completed set under the given metric.
func (e ExerciseEntry) CompletedVolume(metric VolumeMetric) float64 {
	var total float64
	for _, set := range e.Sets {
		if !set.Completed {
			continue
		}
		total += metric.contribution(set)
	}
	return total
}

// WorkoutRecord is a training session as stored by the persistence layer.
type WorkoutRecord struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	UserID     string          `json:"user_id"`
	Title      string          `json:"title,omitempty"`
	Comment    string          `json:"comment,omitempty"`
	Start      time.Time       `json:"start"`
	End        *time.Time      `json:"end,omitempty"`
	InProgress bool            `json:"in_progress"`
	Exercises  []ExerciseEntry `json:"exercises"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Finished reports whether the record takes part in analytics.
func (w WorkoutRecord) Finished() bool {
	return !w.InProgress
}

// Duration is the elapsed time between start and end, zero when the end is unknown.
func (w WorkoutRecord) Duration() time.Duration {
	if w.End == nil || w.End.Before(w.Start) {
		return 0
	}
	return w.End.Sub(w.Start)
}

// CompletedSets counts completed sets across all exercises.
func (w WorkoutRecord) CompletedSets() int {
	n := 0
	for _, entry := range w.Exercises {
		n += entry.CompletedSets()
	}
	return n
}

// CompletedRepetitions counts completed repetitions across all exercises.
func (w WorkoutRecord) CompletedRepetitions() int {
	n := 0
	for _, entry := range w.Exercises {
		n += entry.CompletedRepetitions()
	}
	return n
}

// CompletedVolume sums completed volume across all exercises.
func (w WorkoutRecord) CompletedVolume(metric VolumeMetric) float64 {
	var total float64
	for _, entry := range w.Exercises {
		total += entry.CompletedVolume(metric)
	}
	return total
}

// VolumeMetric selects how a completed set contributes to volume.
type VolumeMetric string

const (
	// MetricWeightTimesReps counts weight multiplied by repetitions.
	MetricWeightTimesReps VolumeMetric = "weight_reps"
	// MetricWeightOnly counts the set weight once.
	MetricWeightOnly VolumeMetric = "weight"
)

// ParseVolumeMetric maps configuration strings onto a metric, defaulting to weight×reps.
func ParseVolumeMetric(value string) VolumeMetric {
	switch value {
	case string(MetricWeightOnly), "weight_only":
		return MetricWeightOnly
	default:
		return MetricWeightTimesReps
	}
}

func (m VolumeMetric) contribution(set SetEntry) float64 {
	if m == MetricWeightOnly {
		return set.Weight
	}
	return set.Weight * float64(set.Repetitions)
}
