package catalog

import (
	"github.com/google/uuid"

	"example.com/trainingstats/internal/domain"
)

var builtins = []domain.ExerciseDefinition{
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a01"),
		EverkineticID:    1,
		Title:            "Bench Press",
		Alias:            []string{"Barbell Bench Press"},
		PrimaryMuscles:   []string{"pectoralis major"},
		SecondaryMuscles: []string{"triceps brachii", "deltoid"},
		Equipment:        []string{"bench", "barbell"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a02"),
		EverkineticID:    2,
		Title:            "Squat",
		Alias:            []string{"Back Squat"},
		PrimaryMuscles:   []string{"quadriceps"},
		SecondaryMuscles: []string{"glutaeus maximus", "ischiocrural muscles"},
		Equipment:        []string{"barbell"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a03"),
		EverkineticID:    3,
		Title:            "Deadlift",
		PrimaryMuscles:   []string{"erector spinae"},
		SecondaryMuscles: []string{"glutaeus maximus", "ischiocrural muscles", "trapezius"},
		Equipment:        []string{"barbell"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a04"),
		EverkineticID:    4,
		Title:            "Overhead Press",
		Alias:            []string{"Military Press"},
		PrimaryMuscles:   []string{"deltoid"},
		SecondaryMuscles: []string{"triceps brachii"},
		Equipment:        []string{"barbell"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a05"),
		EverkineticID:    5,
		Title:            "Pull-Up",
		Alias:            []string{"Chin-Up"},
		PrimaryMuscles:   []string{"latissimus dorsi"},
		SecondaryMuscles: []string{"biceps brachii"},
		Equipment:        []string{"pull-up bar"},
	},
	{
		ID:             uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a06"),
		EverkineticID:  6,
		Title:          "Dumbbell Curl",
		PrimaryMuscles: []string{"biceps brachii"},
		Equipment:      []string{"dumbbell"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a07"),
		EverkineticID:    7,
		Title:            "Crunches",
		PrimaryMuscles:   []string{"abdominals"},
		SecondaryMuscles: []string{"obliques"},
	},
	{
		ID:               uuid.MustParse("5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a08"),
		EverkineticID:    8,
		Title:            "Standing Calf Raise",
		PrimaryMuscles:   []string{"gastrocnemius"},
		SecondaryMuscles: []string{"soleus"},
		Equipment:        []string{"machine"},
	},
}
