package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWorkoutRecordCompletedTotals(t *testing.T) {
	start := time.Date(2025, time.October, 20, 18, 0, 0, 0, time.UTC)
	end := start.Add(75 * time.Minute)
	record := WorkoutRecord{
		Start: start,
		End:   &end,
		Exercises: []ExerciseEntry{
			{ExerciseID: uuid.New(), Sets: []SetEntry{
				{Weight: 100, Repetitions: 5, Completed: true},
				{Weight: 110, Repetitions: 3, Completed: true},
				{Weight: 120, Repetitions: 1, Completed: false},
			}},
			{ExerciseID: uuid.New(), Sets: []SetEntry{
				{Weight: 20, Repetitions: 10, Completed: true},
			}},
		},
	}

	require.Equal(t, 3, record.CompletedSets())
	require.Equal(t, 18, record.CompletedRepetitions())
	require.InDelta(t, 500+330+200, record.CompletedVolume(MetricWeightTimesReps), 1e-9)
	require.InDelta(t, 100+110+20, record.CompletedVolume(MetricWeightOnly), 1e-9)
	require.Equal(t, 75*time.Minute, record.Duration())
	require.Equal(t, 110.0, record.Exercises[0].MaxCompletedWeight())
}

func TestWorkoutDurationWithoutEnd(t *testing.T) {
	record := WorkoutRecord{Start: time.Now()}
	require.Zero(t, record.Duration())
}

func TestParseVolumeMetric(t *testing.T) {
	require.Equal(t, MetricWeightOnly, ParseVolumeMetric("weight"))
	require.Equal(t, MetricWeightOnly, ParseVolumeMetric("weight_only"))
	require.Equal(t, MetricWeightTimesReps, ParseVolumeMetric(""))
	require.Equal(t, MetricWeightTimesReps, ParseVolumeMetric("weight_reps"))
}

func TestExerciseDefinitionDerivedFields(t *testing.T) {
	bench := ExerciseDefinition{
		EverkineticID:  1,
		PrimaryMuscles: []string{"pectoralis major"},
		Equipment:      []string{"bench", "barbell"},
	}
	require.Equal(t, ExerciseTypeBarbell, bench.Type())
	require.Equal(t, "chest", bench.MuscleGroup())
	require.False(t, bench.IsCustom())

	custom := ExerciseDefinition{EverkineticID: CustomEverkineticID, PrimaryMuscles: []string{"neck"}}
	require.True(t, custom.IsCustom())
	require.Equal(t, "other", custom.MuscleGroup())
	require.Equal(t, ExerciseTypeOther, custom.Type())
}

func TestWeightUnitFormatting(t *testing.T) {
	require.Equal(t, "100 kg", WeightUnitMetric.Format(100))
	require.Equal(t, "102.5 kg", WeightUnitMetric.Format(102.5))
	require.Equal(t, "220.5 lb", WeightUnitImperial.Format(100))
	require.InDelta(t, 100, WeightUnitImperial.ToKilograms(WeightUnitImperial.FromKilograms(100)), 1e-9)
	require.Equal(t, WeightUnitImperial, ParseWeightUnit("lb"))
	require.Equal(t, WeightUnitMetric, ParseWeightUnit("unknown"))
}

func TestMilestoneFormattedWeight(t *testing.T) {
	require.Equal(t, "120 kg", Milestone{Weight: 120}.FormattedWeight())
	require.Equal(t, "1.1 t", Milestone{Weight: 1100}.FormattedWeight())
}
