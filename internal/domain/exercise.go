package domain

import (
	"slices"

	"github.com/google/uuid"
)

// MuscleGroup is one of the six canonical buckets muscles are mapped into.
type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupArms      MuscleGroup = "arms"
	MuscleGroupAbs       MuscleGroup = "abs"
	MuscleGroupLegs      MuscleGroup = "legs"
)

// MuscleGroups lists every group in display order.
var MuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupShoulders,
	MuscleGroupArms,
	MuscleGroupAbs,
	MuscleGroupLegs,
}

var muscleGroupTable = map[string]MuscleGroup{
	"abdominals":           MuscleGroupAbs,
	"obliques":             MuscleGroupAbs,
	"biceps brachii":       MuscleGroupArms,
	"triceps brachii":      MuscleGroupArms,
	"deltoid":              MuscleGroupShoulders,
	"erector spinae":       MuscleGroupBack,
	"latissimus dorsi":     MuscleGroupBack,
	"trapezius":            MuscleGroupBack,
	"gastrocnemius":        MuscleGroupLegs,
	"soleus":               MuscleGroupLegs,
	"glutaeus maximus":     MuscleGroupLegs,
	"ischiocrural muscles": MuscleGroupLegs,
	"quadriceps":           MuscleGroupLegs,
	"pectoralis major":     MuscleGroupChest,
}

// MuscleGroupFor maps an anatomical muscle name onto its group.
func MuscleGroupFor(muscle string) (MuscleGroup, bool) {
	group, ok := muscleGroupTable[muscle]
	return group, ok
}

// CustomEverkineticID is the first id handed out to user-defined exercises.
const CustomEverkineticID = 10000

// ExerciseType is derived from the equipment list.
type ExerciseType string

const (
	ExerciseTypeBarbell  ExerciseType = "barbell"
	ExerciseTypeDumbbell ExerciseType = "dumbbell"
	ExerciseTypeOther    ExerciseType = "other"
)

// ExerciseDefinition describes a catalog exercise.
type ExerciseDefinition struct {
	ID               uuid.UUID `json:"uuid"`
	EverkineticID    int       `json:"id"`
	Title            string    `json:"title"`
	Alias            []string  `json:"alias,omitempty"`
	Description      string    `json:"primer,omitempty"`
	PrimaryMuscles   []string  `json:"primary"`
	SecondaryMuscles []string  `json:"secondary"`
	Equipment        []string  `json:"equipment"`
}

// IsCustom reports whether the exercise was created by a user.
func (e ExerciseDefinition) IsCustom() bool {
	return e.EverkineticID >= CustomEverkineticID
}

// Type classifies the exercise by its equipment.
func (e ExerciseDefinition) Type() ExerciseType {
	switch {
	case slices.Contains(e.Equipment, "barbell"):
		return ExerciseTypeBarbell
	case slices.Contains(e.Equipment, "dumbbell"):
		return ExerciseTypeDumbbell
	default:
		return ExerciseTypeOther
	}
}

// MuscleGroup is the group of the first primary muscle, or "other".
func (e ExerciseDefinition) MuscleGroup() string {
	if len(e.PrimaryMuscles) == 0 {
		return "other"
	}
	if group, ok := MuscleGroupFor(e.PrimaryMuscles[0]); ok {
		return string(group)
	}
	return "other"
}

// ExerciseLookup resolves exercise identities to definitions.
type ExerciseLookup interface {
	Find(id uuid.UUID) (ExerciseDefinition, bool)
}
