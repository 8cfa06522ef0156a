package analytics

import (
	"sort"

	"example.com/trainingstats/internal/domain"
)

const defaultHeatMapDays = 7

// MuscleVolume holds completed-set credit per muscle group.
type MuscleVolume map[domain.MuscleGroup]int

// Max is the largest count across groups.
func (m MuscleVolume) Max() int {
	var top int
	for _, count := range m {
		top = max(top, count)
	}
	return top
}

// Intensity normalizes a group's count against the largest count. All groups
// report 0 when nothing was trained.
func (m MuscleVolume) Intensity(group domain.MuscleGroup) float64 {
	top := m.Max()
	if top == 0 {
		return 0
	}
	return float64(m[group]) / float64(top)
}

// MuscleShare is one row of a ranking.
type MuscleShare struct {
	Group     domain.MuscleGroup `json:"group"`
	Sets      int                `json:"sets"`
	Intensity float64            `json:"intensity"`
}

// Ranking lists every group by count descending, ties in canonical group order.
func (m MuscleVolume) Ranking() []MuscleShare {
	out := make([]MuscleShare, 0, len(domain.MuscleGroups))
	for _, group := range domain.MuscleGroups {
		out = append(out, MuscleShare{Group: group, Sets: m[group], Intensity: m.Intensity(group)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sets > out[j].Sets })
	return out
}

// DistributeMuscleVolume credits completed sets in the window to muscle groups.
// Each primary muscle earns the entry's completed set count and each secondary
// muscle earns half of it, rounded down. Unknown exercises and muscles outside
// the group table are skipped.
func DistributeMuscleVolume(records []domain.WorkoutRecord, window Window, lookup domain.ExerciseLookup) MuscleVolume {
	volume := make(MuscleVolume, len(domain.MuscleGroups))
	for _, group := range domain.MuscleGroups {
		volume[group] = 0
	}
	if lookup == nil {
		return volume
	}

	for _, record := range records {
		if !window.Includes(record) {
			continue
		}
		for _, entry := range record.Exercises {
			def, ok := lookup.Find(entry.ExerciseID)
			if !ok {
				continue
			}
			completed := entry.CompletedSets()
			if completed == 0 {
				continue
			}
			credit(volume, def.PrimaryMuscles, completed)
			credit(volume, def.SecondaryMuscles, completed/2)
		}
	}
	return volume
}

func credit(volume MuscleVolume, muscles []string, amount int) {
	for _, muscle := range muscles {
		if group, ok := domain.MuscleGroupFor(muscle); ok {
			volume[group] += amount
		}
	}
}
