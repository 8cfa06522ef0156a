package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/trainingstats/internal/domain"
)

type lookupStub map[uuid.UUID]domain.ExerciseDefinition

func (l lookupStub) Find(id uuid.UUID) (domain.ExerciseDefinition, bool) {
	def, ok := l[id]
	return def, ok
}

var (
	squatID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	benchID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	rowID   = uuid.MustParse("33333333-3333-3333-3333-333333333333")

	testLookup = lookupStub{
		squatID: {ID: squatID, Title: "Squat", PrimaryMuscles: []string{"quadriceps"}},
		benchID: {
			ID:               benchID,
			Title:            "Bench Press",
			PrimaryMuscles:   []string{"pectoralis major"},
			SecondaryMuscles: []string{"triceps brachii", "deltoid"},
		},
	}

	now = time.Date(2025, time.October, 22, 12, 0, 0, 0, time.UTC) // Wednesday
)

func workout(start time.Time, entries ...domain.ExerciseEntry) domain.WorkoutRecord {
	return domain.WorkoutRecord{ID: uuid.NewString(), Start: start, Exercises: entries}
}

func entry(id uuid.UUID, sets ...domain.SetEntry) domain.ExerciseEntry {
	return domain.ExerciseEntry{ExerciseID: id, Sets: sets}
}

func done(weight float64, reps int) domain.SetEntry {
	return domain.SetEntry{Weight: weight, Repetitions: reps, Completed: true}
}

func skipped(weight float64, reps int) domain.SetEntry {
	return domain.SetEntry{Weight: weight, Repetitions: reps}
}

func TestVolumeEmptyWindowIsZero(t *testing.T) {
	window := LastDays(now, 7)
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -10), entry(squatID, done(100, 5))),
	}

	summary := Volume(records, window, domain.MetricWeightTimesReps)
	require.Zero(t, summary.Volume)
	require.Zero(t, summary.Workouts)
	require.Zero(t, Volume(nil, window, domain.MetricWeightTimesReps).Volume)
}

func TestVolumeCountsOnlyFinishedCompletedSets(t *testing.T) {
	window := LastDays(now, 7)
	inProgress := workout(now.Add(-time.Hour), entry(squatID, done(200, 10)))
	inProgress.InProgress = true
	records := []domain.WorkoutRecord{
		workout(now.Add(-24*time.Hour), entry(squatID, done(100, 5), skipped(120, 5))),
		inProgress,
		workout(now, entry(squatID, done(100, 5))),
	}

	summary := Volume(records, window, domain.MetricWeightTimesReps)
	require.Equal(t, 500.0, summary.Volume)
	require.Equal(t, 1, summary.Workouts)
	require.Equal(t, 1, summary.Sets)
	require.Equal(t, 5, summary.Repetitions)

	require.Equal(t, 100.0, Volume(records, window, domain.MetricWeightOnly).Volume)
}

func TestVolumeWindowIsHalfOpen(t *testing.T) {
	window := Window{Start: now.AddDate(0, 0, -1), End: now}
	records := []domain.WorkoutRecord{
		workout(window.Start, entry(squatID, done(10, 1))),
		workout(window.End, entry(squatID, done(1000, 1))),
	}
	require.Equal(t, 10.0, Volume(records, window, domain.MetricWeightTimesReps).Volume)
}

func TestPercentChange(t *testing.T) {
	change, ok := PercentChange(1100, 1000)
	require.True(t, ok)
	require.InDelta(t, 0.10, change, 1e-9)

	change, ok = PercentChange(900, 1000)
	require.True(t, ok)
	require.InDelta(t, -0.10, change, 1e-9)

	_, ok = PercentChange(500, 0)
	require.False(t, ok)

	change, ok = PercentChange(1000.5, 1000)
	require.True(t, ok)
	require.Zero(t, change)
}

func TestComparePeriods(t *testing.T) {
	calendar := DefaultCalendar()
	records := []domain.WorkoutRecord{
		workout(time.Date(2025, time.October, 21, 8, 0, 0, 0, time.UTC), entry(squatID, done(110, 10))),
		workout(time.Date(2025, time.October, 14, 8, 0, 0, 0, time.UTC), entry(squatID, done(100, 10))),
		workout(time.Date(2025, time.September, 3, 8, 0, 0, 0, time.UTC), entry(squatID, done(50, 10))),
	}

	week, month := ComparePeriods(records, now, calendar, domain.MetricWeightTimesReps)
	require.Equal(t, 1100.0, week.Current.Volume)
	require.Equal(t, 1000.0, week.Previous.Volume)
	require.NotNil(t, week.Change)
	require.InDelta(t, 0.10, *week.Change, 1e-9)

	require.Equal(t, 2100.0, month.Current.Volume)
	require.Equal(t, 500.0, month.Previous.Volume)
	require.InDelta(t, 3.2, *month.Change, 1e-9)

	week, _ = ComparePeriods(records[:1], now, calendar, domain.MetricWeightTimesReps)
	require.Nil(t, week.Change)
}

func TestCalendarBoundaries(t *testing.T) {
	calendar := DefaultCalendar()
	require.Equal(t, time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC), calendar.StartOfWeek(now))
	require.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), calendar.StartOfMonth(now))

	sunday := Calendar{Location: time.UTC, FirstWeekday: time.Sunday}
	require.Equal(t, time.Date(2025, time.October, 19, 0, 0, 0, 0, time.UTC), sunday.StartOfWeek(now))
}

func TestProgressiveOverloadImprovementAndPR(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -3), entry(squatID, done(100, 5), skipped(140, 1))),
		workout(now.AddDate(0, 0, -20), entry(squatID, done(80, 5))),
		workout(now.AddDate(0, 0, -2), entry(benchID, done(100, 5))),
	}

	result := ProgressiveOverload(records, now, testLookup, OverloadOptions{})
	require.Len(t, result, 2)

	require.Equal(t, squatID, result[0].ExerciseID)
	require.Equal(t, "Squat", result[0].Title)
	require.InDelta(t, 25.0, result[0].Improvement, 1e-9)
	require.True(t, result[0].IsNewPR)

	require.Equal(t, benchID, result[1].ExerciseID)
	require.Zero(t, result[1].Improvement)
	require.False(t, result[1].IsNewPR)
}

func TestProgressiveOverloadExcludesExercisesWithoutRecentWork(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -20), entry(squatID, done(80, 5))),
		workout(now.AddDate(0, 0, -1), entry(benchID, skipped(100, 5))),
		workout(now.AddDate(0, 0, -40), entry(rowID, done(60, 5))),
	}
	require.Empty(t, ProgressiveOverload(records, now, testLookup, OverloadOptions{}))
}

func TestProgressiveOverloadUnknownExerciseAndTop(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -1), entry(rowID, done(60, 5))),
		workout(now.AddDate(0, 0, -1), entry(squatID, done(60, 5))),
	}
	result := ProgressiveOverload(records, now, testLookup, OverloadOptions{})
	require.Len(t, result, 2)
	require.Len(t, result.Top(1), 1)
	require.Len(t, result.Top(5), 2)

	for _, progress := range result {
		if progress.ExerciseID == rowID {
			require.Equal(t, UnknownExerciseTitle, progress.Title)
		}
	}
}

func TestDistributeMuscleVolumePrimaryOnly(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -1), entry(squatID, done(100, 5), done(100, 5), done(100, 5), done(100, 5), skipped(100, 5))),
	}
	volume := DistributeMuscleVolume(records, LastDays(now, 7), testLookup)

	require.Equal(t, 4, volume[domain.MuscleGroupLegs])
	for _, group := range domain.MuscleGroups {
		if group != domain.MuscleGroupLegs {
			require.Zero(t, volume[group], group)
		}
	}
	require.Equal(t, 1.0, volume.Intensity(domain.MuscleGroupLegs))
	require.Zero(t, volume.Intensity(domain.MuscleGroupChest))
}

func TestDistributeMuscleVolumeSecondaryHalfCredit(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -1), entry(benchID, done(60, 8), done(60, 8), done(60, 8))),
		workout(now.AddDate(0, 0, -2), entry(rowID, done(60, 8))),
		workout(now.AddDate(0, 0, -9), entry(squatID, done(60, 8))),
	}
	volume := DistributeMuscleVolume(records, LastDays(now, 7), testLookup)

	require.Equal(t, 3, volume[domain.MuscleGroupChest])
	require.Equal(t, 1, volume[domain.MuscleGroupArms])
	require.Equal(t, 1, volume[domain.MuscleGroupShoulders])
	require.Zero(t, volume[domain.MuscleGroupLegs])
	require.InDelta(t, 1.0/3.0, volume.Intensity(domain.MuscleGroupArms), 1e-9)

	ranking := volume.Ranking()
	require.Len(t, ranking, len(domain.MuscleGroups))
	require.Equal(t, domain.MuscleGroupChest, ranking[0].Group)
	require.Equal(t, domain.MuscleGroupShoulders, ranking[1].Group)
	require.Equal(t, domain.MuscleGroupArms, ranking[2].Group)
}

func TestDistributeMuscleVolumeEmpty(t *testing.T) {
	volume := DistributeMuscleVolume(nil, LastDays(now, 7), testLookup)
	require.Len(t, volume, len(domain.MuscleGroups))
	for _, group := range domain.MuscleGroups {
		require.Zero(t, volume.Intensity(group))
	}
}

func TestTrackMilestones(t *testing.T) {
	table := []domain.Milestone{
		{Name: "A", Weight: 100},
		{Name: "B", Weight: 200},
		{Name: "C", Weight: 500},
	}

	progress := TrackMilestones(250, table)
	require.Len(t, progress.Achieved, 2)
	require.Equal(t, "A", progress.Achieved[0].Name)
	require.Equal(t, "B", progress.Achieved[1].Name)
	require.NotNil(t, progress.Next)
	require.Equal(t, "C", progress.Next.Name)
	require.InDelta(t, 0.1667, progress.ProgressToNext, 1e-4)

	progress = TrackMilestones(600, table)
	require.Len(t, progress.Achieved, 3)
	require.Nil(t, progress.Next)
	require.Equal(t, 1.0, progress.ProgressToNext)

	progress = TrackMilestones(50, table)
	require.Empty(t, progress.Achieved)
	require.Equal(t, "A", progress.Next.Name)
	require.InDelta(t, 0.5, progress.ProgressToNext, 1e-9)

	progress = TrackMilestones(200, table)
	require.Len(t, progress.Achieved, 2)
	require.Zero(t, progress.ProgressToNext)
	latest, ok := progress.Latest()
	require.True(t, ok)
	require.Equal(t, "B", latest.Name)
}

func TestDefaultMilestonesAreValid(t *testing.T) {
	require.NoError(t, ValidateMilestones(domain.DefaultMilestones))
	require.Len(t, domain.DefaultMilestones, 25)

	err := ValidateMilestones([]domain.Milestone{{Name: "A", Weight: 200}, {Name: "B", Weight: 100}})
	require.Error(t, err)
	require.Error(t, ValidateMilestones(nil))
}

func TestLifetimeVolumeSkipsInProgress(t *testing.T) {
	active := workout(now, entry(squatID, done(100, 10)))
	active.InProgress = true
	records := []domain.WorkoutRecord{
		workout(now.AddDate(-1, 0, 0), entry(squatID, done(100, 10))),
		active,
	}
	require.Equal(t, 1000.0, LifetimeVolume(records, domain.MetricWeightTimesReps))
}

func TestSummarize(t *testing.T) {
	end := now.AddDate(0, 0, -1).Add(45 * time.Minute)
	finished := workout(now.AddDate(0, 0, -1), entry(squatID, done(100, 5), done(100, 5)))
	finished.End = &end
	records := []domain.WorkoutRecord{
		finished,
		workout(now.AddDate(0, 0, -2), entry(benchID, done(50, 10))),
	}

	summary := Summarize(records, LastDays(now, 7), domain.MetricWeightTimesReps)
	require.Equal(t, 2, summary.Workouts)
	require.Equal(t, 45*time.Minute, summary.Duration)
	require.Equal(t, 3, summary.Sets)
	require.Equal(t, 20, summary.Repetitions)
	require.Equal(t, 1500.0, summary.Volume)
}

func TestReducersAreIdempotent(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout(now.AddDate(0, 0, -1), entry(benchID, done(100, 5), done(100, 5))),
		workout(now.AddDate(0, 0, -2), entry(squatID, done(140, 3))),
		workout(now.AddDate(0, 0, -18), entry(squatID, done(120, 3)), entry(benchID, done(90, 5))),
	}
	opts := ComputeOptions{Calendar: DefaultCalendar(), Metric: domain.MetricWeightTimesReps}

	first := Compute(records, now, testLookup, opts)
	second := Compute(records, now, testLookup, opts)
	require.Equal(t, first, second)
}
