// Package memory provides an in-process workout store for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/trainingstats/internal/domain"
)

// Repository stores workouts in memory, keyed by tenant.
type Repository struct {
	mu          sync.RWMutex
	workouts    map[string]map[string]domain.WorkoutRecord
	idempotency map[string]string
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		workouts:    make(map[string]map[string]domain.WorkoutRecord),
		idempotency: make(map[string]string),
	}
}

func idempotencyIndex(tenantID, userID, key string) string {
	return tenantID + "|" + userID + "|" + key
}

// FindByIdempotency implements domain.WorkoutRepository.
func (r *Repository) FindByIdempotency(ctx context.Context, tenantID, userID, idempotencyKey string) (*domain.WorkoutRecord, error) {
	if idempotencyKey == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idempotency[idempotencyIndex(tenantID, userID, idempotencyKey)]
	if !ok {
		return nil, nil
	}
	record, ok := r.workouts[tenantID][id]
	if !ok {
		return nil, nil
	}
	clone := cloneRecord(record)
	return &clone, nil
}

// Create implements domain.WorkoutRepository.
func (r *Repository) Create(ctx context.Context, record domain.WorkoutRecord, idempotencyKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	tenant, ok := r.workouts[record.TenantID]
	if !ok {
		tenant = make(map[string]domain.WorkoutRecord)
		r.workouts[record.TenantID] = tenant
	}
	tenant[record.ID] = cloneRecord(record)
	if idempotencyKey != "" {
		r.idempotency[idempotencyIndex(record.TenantID, record.UserID, idempotencyKey)] = record.ID
	}
	return nil
}

// Get returns a workout by ID, nil when absent.
func (r *Repository) Get(ctx context.Context, tenantID, workoutID string) (*domain.WorkoutRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.workouts[tenantID][workoutID]
	if !ok {
		return nil, nil
	}
	clone := cloneRecord(record)
	return &clone, nil
}

// ListByUser returns a user's workouts ordered by start descending.
func (r *Repository) ListByUser(ctx context.Context, tenantID, userID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutRecord, *domain.Cursor, error) {
	all := r.sortedForUser(tenantID, userID, func(domain.WorkoutRecord) bool { return true })

	results := make([]domain.WorkoutRecord, 0, limit)
	for _, record := range all {
		if cursor != nil && !before(record, cursor) {
			continue
		}
		results = append(results, record)
		if limit > 0 && len(results) == limit {
			break
		}
	}

	var next *domain.Cursor
	if limit > 0 && len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{Start: last.Start, ID: last.ID}
	}
	return results, next, nil
}

// ListFinished implements domain.WorkoutQuery.
func (r *Repository) ListFinished(ctx context.Context, tenantID, userID string, from time.Time, to *time.Time) ([]domain.WorkoutRecord, error) {
	return r.sortedForUser(tenantID, userID, func(record domain.WorkoutRecord) bool {
		if record.InProgress || record.Start.Before(from) {
			return false
		}
		return to == nil || record.Start.Before(*to)
	}), nil
}

func (r *Repository) sortedForUser(tenantID, userID string, keep func(domain.WorkoutRecord) bool) []domain.WorkoutRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WorkoutRecord, 0)
	for _, record := range r.workouts[tenantID] {
		if record.UserID != userID || !keep(record) {
			continue
		}
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID > out[j].ID
		}
		return out[i].Start.After(out[j].Start)
	})
	return out
}

// before reports whether record sorts strictly after the cursor position.
func before(record domain.WorkoutRecord, cursor *domain.Cursor) bool {
	if record.Start.Equal(cursor.Start) {
		return record.ID < cursor.ID
	}
	return record.Start.Before(cursor.Start)
}

func cloneRecord(record domain.WorkoutRecord) domain.WorkoutRecord {
	clone := record
	if record.End != nil {
		end := *record.End
		clone.End = &end
	}
	clone.Exercises = make([]domain.ExerciseEntry, len(record.Exercises))
	for i, entry := range record.Exercises {
		sets := make([]domain.SetEntry, len(entry.Sets))
		copy(sets, entry.Sets)
		clone.Exercises[i] = domain.ExerciseEntry{ExerciseID: entry.ExerciseID, Sets: sets}
	}
	return clone
}
