package api

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/auth"
	"example.com/trainingstats/internal/domain"
)

// RecordWorkoutRequest is the payload for POST /v1/workouts. Weights are given
// in Unit and stored in kilograms.
type RecordWorkoutRequest struct {
	UserID     string            `json:"user_id"`
	Title      string            `json:"title"`
	Comment    string            `json:"comment"`
	Start      time.Time         `json:"start"`
	End        *time.Time        `json:"end,omitempty"`
	InProgress bool              `json:"in_progress"`
	Unit       string            `json:"unit,omitempty"`
	Exercises  []ExerciseRequest `json:"exercises"`
}

// ExerciseRequest is one exercise within RecordWorkoutRequest.
type ExerciseRequest struct {
	ExerciseID uuid.UUID    `json:"exercise_id"`
	Sets       []SetRequest `json:"sets"`
}

// SetRequest is one set within ExerciseRequest.
type SetRequest struct {
	Weight      float64  `json:"weight"`
	Repetitions int      `json:"repetitions"`
	Completed   bool     `json:"completed"`
	RPE         *float64 `json:"rpe,omitempty"`
	Tag         string   `json:"tag,omitempty"`
}

// Validate checks what the handler can check before the domain rules run.
func (r RecordWorkoutRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Start.IsZero() {
		return errors.New("start is required")
	}
	return nil
}

func (r RecordWorkoutRequest) toInput(claims *auth.Claims, idempotencyKey string) domain.RecordWorkoutInput {
	unit := domain.ParseWeightUnit(r.Unit)
	exercises := make([]domain.ExerciseEntry, 0, len(r.Exercises))
	for _, ex := range r.Exercises {
		sets := make([]domain.SetEntry, 0, len(ex.Sets))
		for _, set := range ex.Sets {
			sets = append(sets, domain.SetEntry{
				Weight:      unit.ToKilograms(set.Weight),
				Repetitions: set.Repetitions,
				Completed:   set.Completed,
				RPE:         set.RPE,
				Tag:         domain.SetTag(set.Tag),
			})
		}
		exercises = append(exercises, domain.ExerciseEntry{ExerciseID: ex.ExerciseID, Sets: sets})
	}
	return domain.RecordWorkoutInput{
		TenantID:       claims.TenantID,
		UserID:         r.UserID,
		Title:          r.Title,
		Comment:        r.Comment,
		Start:          r.Start,
		End:            r.End,
		InProgress:     r.InProgress,
		Exercises:      exercises,
		IdempotencyKey: idempotencyKey,
	}
}

// RecordWorkoutResponse describes the response body for POST /v1/workouts.
type RecordWorkoutResponse struct {
	WorkoutID string `json:"workout_id"`
	Replay    bool   `json:"idempotent_replay"`
}

// WeightView renders a canonical kilogram value in the requested unit.
type WeightView struct {
	Kilograms float64 `json:"kg"`
	Value     float64 `json:"value"`
	Display   string  `json:"display"`
}

func weight(unit domain.WeightUnit, kg float64) WeightView {
	return WeightView{Kilograms: kg, Value: unit.FromKilograms(kg), Display: unit.Format(kg)}
}

// WorkoutView exposes a recorded workout.
type WorkoutView struct {
	WorkoutID            string             `json:"workout_id"`
	TenantID             string             `json:"tenant_id"`
	UserID               string             `json:"user_id"`
	Title                string             `json:"title,omitempty"`
	Comment              string             `json:"comment,omitempty"`
	Start                time.Time          `json:"start"`
	End                  *time.Time         `json:"end,omitempty"`
	InProgress           bool               `json:"in_progress"`
	DurationSeconds      int64              `json:"duration_seconds"`
	CompletedSets        int                `json:"completed_sets"`
	CompletedRepetitions int                `json:"completed_repetitions"`
	Exercises            []WorkoutEntryView `json:"exercises"`
	CreatedAt            time.Time          `json:"created_at"`
}

// WorkoutEntryView is one exercise inside WorkoutView.
type WorkoutEntryView struct {
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Title      string     `json:"title"`
	Sets       []SetView  `json:"sets"`
	MaxWeight  WeightView `json:"max_weight"`
}

// SetView is one set inside WorkoutEntryView.
type SetView struct {
	Weight      WeightView `json:"weight"`
	Repetitions int        `json:"repetitions"`
	Completed   bool       `json:"completed"`
	RPE         *float64   `json:"rpe,omitempty"`
	Tag         string     `json:"tag,omitempty"`
}

// ListWorkoutsResponse packages list results.
type ListWorkoutsResponse struct {
	Items      []WorkoutView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func (h *Handler) toWorkoutView(record domain.WorkoutRecord, unit domain.WeightUnit) WorkoutView {
	view := WorkoutView{
		WorkoutID:            record.ID,
		TenantID:             record.TenantID,
		UserID:               record.UserID,
		Title:                record.Title,
		Comment:              record.Comment,
		Start:                record.Start,
		End:                  record.End,
		InProgress:           record.InProgress,
		DurationSeconds:      durationSeconds(record.Duration()),
		CompletedSets:        record.CompletedSets(),
		CompletedRepetitions: record.CompletedRepetitions(),
		Exercises:            make([]WorkoutEntryView, 0, len(record.Exercises)),
		CreatedAt:            record.CreatedAt,
	}
	for _, entry := range record.Exercises {
		title := analytics.UnknownExerciseTitle
		if def, ok := h.exercises.Find(entry.ExerciseID); ok {
			title = def.Title
		}
		sets := make([]SetView, 0, len(entry.Sets))
		for _, set := range entry.Sets {
			sets = append(sets, SetView{
				Weight:      weight(unit, set.Weight),
				Repetitions: set.Repetitions,
				Completed:   set.Completed,
				RPE:         set.RPE,
				Tag:         string(set.Tag),
			})
		}
		view.Exercises = append(view.Exercises, WorkoutEntryView{
			ExerciseID: entry.ExerciseID,
			Title:      title,
			Sets:       sets,
			MaxWeight:  weight(unit, entry.MaxCompletedWeight()),
		})
	}
	return view
}

// CreateExerciseRequest is the payload for POST /v1/exercises.
type CreateExerciseRequest struct {
	Title            string   `json:"title"`
	Alias            []string `json:"alias,omitempty"`
	Description      string   `json:"description,omitempty"`
	PrimaryMuscles   []string `json:"primary"`
	SecondaryMuscles []string `json:"secondary"`
	Equipment        []string `json:"equipment"`
}

func (r CreateExerciseRequest) toDefinition() domain.ExerciseDefinition {
	return domain.ExerciseDefinition{
		Title:            r.Title,
		Alias:            r.Alias,
		Description:      r.Description,
		PrimaryMuscles:   r.PrimaryMuscles,
		SecondaryMuscles: r.SecondaryMuscles,
		Equipment:        r.Equipment,
	}
}

// ExerciseView exposes a catalog exercise.
type ExerciseView struct {
	ID               uuid.UUID `json:"uuid"`
	EverkineticID    int       `json:"id"`
	Title            string    `json:"title"`
	Alias            []string  `json:"alias,omitempty"`
	Description      string    `json:"description,omitempty"`
	PrimaryMuscles   []string  `json:"primary"`
	SecondaryMuscles []string  `json:"secondary"`
	Equipment        []string  `json:"equipment"`
	Type             string    `json:"type"`
	MuscleGroup      string    `json:"muscle_group"`
	Custom           bool      `json:"custom"`
}

// ListExercisesResponse packages catalog search results.
type ListExercisesResponse struct {
	Items []ExerciseView `json:"items"`
}

func toExerciseView(def domain.ExerciseDefinition) ExerciseView {
	return ExerciseView{
		ID:               def.ID,
		EverkineticID:    def.EverkineticID,
		Title:            def.Title,
		Alias:            def.Alias,
		Description:      def.Description,
		PrimaryMuscles:   def.PrimaryMuscles,
		SecondaryMuscles: def.SecondaryMuscles,
		Equipment:        def.Equipment,
		Type:             string(def.Type()),
		MuscleGroup:      def.MuscleGroup(),
		Custom:           def.IsCustom(),
	}
}

// VolumeSummaryView is one calendar period of volume.
type VolumeSummaryView struct {
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Volume      WeightView `json:"volume"`
	Workouts    int        `json:"workouts"`
	Sets        int        `json:"sets"`
	Repetitions int        `json:"repetitions"`
}

// ComparisonView pairs the current period with the previous one. Change is
// omitted when the previous period had no volume.
type ComparisonView struct {
	Period   analytics.Period  `json:"period"`
	Current  VolumeSummaryView `json:"current"`
	Previous VolumeSummaryView `json:"previous"`
	Change   *float64          `json:"change,omitempty"`
}

// VolumeResponse is the body of GET /v1/stats/volume.
type VolumeResponse struct {
	Unit  domain.WeightUnit `json:"unit"`
	Week  ComparisonView    `json:"week"`
	Month ComparisonView    `json:"month"`
}

func toVolumeSummary(summary analytics.VolumeSummary, unit domain.WeightUnit) VolumeSummaryView {
	return VolumeSummaryView{
		Start:       summary.Window.Start,
		End:         summary.Window.End,
		Volume:      weight(unit, summary.Volume),
		Workouts:    summary.Workouts,
		Sets:        summary.Sets,
		Repetitions: summary.Repetitions,
	}
}

func toComparison(c analytics.Comparison, unit domain.WeightUnit) ComparisonView {
	return ComparisonView{
		Period:   c.Period,
		Current:  toVolumeSummary(c.Current, unit),
		Previous: toVolumeSummary(c.Previous, unit),
		Change:   c.Change,
	}
}

func toVolumeView(stats analytics.VolumeStats, unit domain.WeightUnit) VolumeResponse {
	return VolumeResponse{Unit: unit, Week: toComparison(stats.Week, unit), Month: toComparison(stats.Month, unit)}
}

// OverloadItemView is one exercise of the overload report.
type OverloadItemView struct {
	ExerciseID  uuid.UUID  `json:"exercise_id"`
	Title       string     `json:"title"`
	CurrentMax  WeightView `json:"current_max"`
	PreviousMax WeightView `json:"previous_max"`
	Improvement float64    `json:"improvement"`
	IsNewPR     bool       `json:"is_new_pr"`
}

// OverloadResponse is the body of GET /v1/stats/overload.
type OverloadResponse struct {
	Unit  domain.WeightUnit  `json:"unit"`
	Items []OverloadItemView `json:"items"`
}

func toOverloadItems(overload analytics.Overload, unit domain.WeightUnit) []OverloadItemView {
	items := make([]OverloadItemView, 0, len(overload))
	for _, p := range overload {
		items = append(items, OverloadItemView{
			ExerciseID:  p.ExerciseID,
			Title:       p.Title,
			CurrentMax:  weight(unit, p.CurrentMax),
			PreviousMax: weight(unit, p.PreviousMax),
			Improvement: p.Improvement,
			IsNewPR:     p.IsNewPR,
		})
	}
	return items
}

// MusclesResponse is the body of GET /v1/stats/muscles.
type MusclesResponse struct {
	Groups []analytics.MuscleShare `json:"groups"`
}

// MilestoneView is one threshold of the milestone table.
type MilestoneView struct {
	Name        string     `json:"name"`
	Weight      WeightView `json:"weight"`
	Emoji       string     `json:"emoji,omitempty"`
	Description string     `json:"description,omitempty"`
}

// MilestonesResponse is the body of GET /v1/stats/milestones.
type MilestonesResponse struct {
	Unit           domain.WeightUnit `json:"unit"`
	Total          WeightView        `json:"total"`
	Achieved       []MilestoneView   `json:"achieved"`
	Latest         *MilestoneView    `json:"latest,omitempty"`
	Next           *MilestoneView    `json:"next,omitempty"`
	ProgressToNext float64           `json:"progress_to_next"`
}

func toMilestone(m domain.Milestone, unit domain.WeightUnit) MilestoneView {
	return MilestoneView{Name: m.Name, Weight: weight(unit, m.Weight), Emoji: m.Emoji, Description: m.Description}
}

func toMilestonesView(progress analytics.MilestoneProgress, unit domain.WeightUnit) MilestonesResponse {
	resp := MilestonesResponse{
		Unit:           unit,
		Total:          weight(unit, progress.Total),
		Achieved:       make([]MilestoneView, 0, len(progress.Achieved)),
		ProgressToNext: progress.ProgressToNext,
	}
	for _, m := range progress.Achieved {
		resp.Achieved = append(resp.Achieved, toMilestone(m, unit))
	}
	if latest, ok := progress.Latest(); ok {
		view := toMilestone(latest, unit)
		resp.Latest = &view
	}
	if progress.Next != nil {
		view := toMilestone(*progress.Next, unit)
		resp.Next = &view
	}
	return resp
}

// SummaryResponse is the body of GET /v1/stats/summary.
type SummaryResponse struct {
	Unit            domain.WeightUnit `json:"unit"`
	Start           time.Time         `json:"start"`
	End             time.Time         `json:"end"`
	Workouts        int               `json:"workouts"`
	DurationSeconds int64             `json:"duration_seconds"`
	Sets            int               `json:"sets"`
	Repetitions     int               `json:"repetitions"`
	Volume          WeightView        `json:"volume"`
}

func toSummaryView(summary analytics.ActivitySummary, unit domain.WeightUnit) SummaryResponse {
	return SummaryResponse{
		Unit:            unit,
		Start:           summary.Window.Start,
		End:             summary.Window.End,
		Workouts:        summary.Workouts,
		DurationSeconds: durationSeconds(summary.Duration),
		Sets:            summary.Sets,
		Repetitions:     summary.Repetitions,
		Volume:          weight(unit, summary.Volume),
	}
}

// DashboardResponse bundles every report computed from one snapshot.
type DashboardResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Unit        domain.WeightUnit       `json:"unit"`
	Volume      VolumeResponse          `json:"volume"`
	Overload    []OverloadItemView      `json:"overload"`
	Muscles     []analytics.MuscleShare `json:"muscles"`
	Milestones  MilestonesResponse      `json:"milestones"`
	Summary     SummaryResponse         `json:"summary"`
}
