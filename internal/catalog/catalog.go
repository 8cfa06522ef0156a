// Package catalog holds the exercise definitions analytics resolve workout entries against.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/trainingstats/internal/domain"
)

// Catalog is an in-memory exercise store. It is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	exercises map[uuid.UUID]domain.ExerciseDefinition
	nextID    int
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		exercises: make(map[uuid.UUID]domain.ExerciseDefinition),
		nextID:    domain.CustomEverkineticID,
	}
}

// NewSeeded constructs a catalog populated with the built-in exercises.
func NewSeeded() *Catalog {
	c := New()
	c.Add(builtins...)
	return c
}

// Add stores definitions as-is, replacing existing entries with the same ID.
func (c *Catalog) Add(defs ...domain.ExerciseDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, def := range defs {
		c.exercises[def.ID] = def
		if def.IsCustom() && def.EverkineticID >= c.nextID {
			c.nextID = def.EverkineticID + 1
		}
	}
}

// LoadJSON reads an exercise list and adds it to the catalog.
func (c *Catalog) LoadJSON(r io.Reader) (int, error) {
	var defs []domain.ExerciseDefinition
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return 0, fmt.Errorf("decode exercises: %w", err)
	}
	for i, def := range defs {
		if def.ID == uuid.Nil {
			return 0, fmt.Errorf("exercise %d (%q): uuid is required", i, def.Title)
		}
	}
	c.Add(defs...)
	return len(defs), nil
}

// LoadFile reads an exercise list from path.
func (c *Catalog) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return c.LoadJSON(f)
}

// Find implements domain.ExerciseLookup.
func (c *Catalog) Find(id uuid.UUID) (domain.ExerciseDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.exercises[id]
	return def, ok
}

// Len reports the number of stored exercises.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.exercises)
}

// Search performs a case-insensitive substring match on titles and aliases,
// ordered by title. A non-positive limit returns every match.
func (c *Catalog) Search(query string, limit int) []domain.ExerciseDefinition {
	c.mu.RLock()
	normalized := strings.ToLower(strings.TrimSpace(query))
	results := make([]domain.ExerciseDefinition, 0)
	for _, def := range c.exercises {
		if normalized == "" || matches(def, normalized) {
			results = append(results, def)
		}
	}
	c.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Title == results[j].Title {
			return results[i].ID.String() < results[j].ID.String()
		}
		return results[i].Title < results[j].Title
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func matches(def domain.ExerciseDefinition, query string) bool {
	if strings.Contains(strings.ToLower(def.Title), query) {
		return true
	}
	for _, alias := range def.Alias {
		if strings.Contains(strings.ToLower(alias), query) {
			return true
		}
	}
	return false
}

// UpsertCustom stores a user-defined exercise, assigning a UUID and a custom
// everkinetic id when they are missing.
func (c *Catalog) UpsertCustom(def domain.ExerciseDefinition) (domain.ExerciseDefinition, error) {
	if strings.TrimSpace(def.Title) == "" {
		return domain.ExerciseDefinition{}, fmt.Errorf("title is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	if existing, ok := c.exercises[def.ID]; ok && !existing.IsCustom() {
		return domain.ExerciseDefinition{}, fmt.Errorf("exercise %s is built in", def.ID)
	}
	if existing, ok := c.exercises[def.ID]; ok {
		def.EverkineticID = existing.EverkineticID
	} else if !def.IsCustom() {
		def.EverkineticID = c.nextID
	}
	if def.EverkineticID >= c.nextID {
		c.nextID = def.EverkineticID + 1
	}
	def.Title = strings.TrimSpace(def.Title)
	c.exercises[def.ID] = def
	return def, nil
}

// SplitIntoMuscleGroups buckets definitions by MuscleGroup, keyed by group name
// with "other" for exercises whose first primary muscle is unmapped.
func SplitIntoMuscleGroups(defs []domain.ExerciseDefinition) map[string][]domain.ExerciseDefinition {
	out := make(map[string][]domain.ExerciseDefinition)
	for _, def := range defs {
		group := def.MuscleGroup()
		out[group] = append(out[group], def)
	}
	return out
}
