// Package domain defines the workout model and the business logic around recording sessions.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrWorkoutNotFound is returned when a workout cannot be located.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrInvalidWorkout wraps validation failures for recorded workouts.
	ErrInvalidWorkout = errors.New("invalid workout")
)

// Cursor models the pagination token for workout listings.
type Cursor struct {
	Start time.Time
	ID    string
}

// WorkoutQuery is the read-only source the analytics reducers consume.
// Results contain finished records only, ordered by start descending.
type WorkoutQuery interface {
	ListFinished(ctx context.Context, tenantID, userID string, from time.Time, to *time.Time) ([]WorkoutRecord, error)
}

// WorkoutRepository captures persistence operations.
type WorkoutRepository interface {
	WorkoutQuery
	FindByIdempotency(ctx context.Context, tenantID, userID, idempotencyKey string) (*WorkoutRecord, error)
	Create(ctx context.Context, record WorkoutRecord, idempotencyKey string) error
	Get(ctx context.Context, tenantID, workoutID string) (*WorkoutRecord, error)
	ListByUser(ctx context.Context, tenantID, userID string, cursor *Cursor, limit int) ([]WorkoutRecord, *Cursor, error)
}

// Invalidator is notified after a user's history changes.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID, userID string) error
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string, string) error { return nil }

// Service orchestrates workout workflows.
type Service struct {
	repo  WorkoutRepository
	cache Invalidator
	now   func() time.Time
}

// NewService constructs a Service. A nil invalidator disables invalidation.
func NewService(repo WorkoutRepository, invalidator Invalidator) *Service {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{repo: repo, cache: invalidator, now: time.Now}
}

// RecordWorkoutInput captures the payload from the API layer.
type RecordWorkoutInput struct {
	TenantID       string
	UserID         string
	Title          string
	Comment        string
	Start          time.Time
	End            *time.Time
	InProgress     bool
	Exercises      []ExerciseEntry
	IdempotencyKey string
}

// Validate checks the input against the recording rules.
func (in RecordWorkoutInput) Validate() error {
	if strings.TrimSpace(in.TenantID) == "" {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidWorkout)
	}
	if strings.TrimSpace(in.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidWorkout)
	}
	if in.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidWorkout)
	}
	if in.End != nil && in.End.Before(in.Start) {
		return fmt.Errorf("%w: end must not precede start", ErrInvalidWorkout)
	}
	for i, entry := range in.Exercises {
		if entry.ExerciseID == uuid.Nil {
			return fmt.Errorf("%w: exercises[%d].exercise_id is required", ErrInvalidWorkout, i)
		}
		for j, set := range entry.Sets {
			if set.Weight < 0 {
				return fmt.Errorf("%w: exercises[%d].sets[%d].weight must be >= 0", ErrInvalidWorkout, i, j)
			}
			if set.Repetitions < 0 {
				return fmt.Errorf("%w: exercises[%d].sets[%d].repetitions must be >= 0", ErrInvalidWorkout, i, j)
			}
			if set.RPE != nil && !ValidRPE(*set.RPE) {
				return fmt.Errorf("%w: exercises[%d].sets[%d].rpe must be between 7 and 10 in steps of 0.5", ErrInvalidWorkout, i, j)
			}
			if !set.Tag.Valid() {
				return fmt.Errorf("%w: exercises[%d].sets[%d].tag %q is unknown", ErrInvalidWorkout, i, j, set.Tag)
			}
		}
	}
	return nil
}

// ValidRPE reports whether the rating of perceived exertion is one of 7, 7.5, ..., 10.
func ValidRPE(rpe float64) bool {
	if rpe < 7 || rpe > 10 {
		return false
	}
	doubled := rpe * 2
	return doubled == float64(int(doubled))
}

// RecordWorkout validates and stores a workout. The boolean reports an idempotent replay.
func (s *Service) RecordWorkout(ctx context.Context, input RecordWorkoutInput) (*WorkoutRecord, bool, error) {
	if err := input.Validate(); err != nil {
		return nil, false, err
	}
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotency(ctx, input.TenantID, input.UserID, input.IdempotencyKey)
		if err != nil {
			return nil, false, fmt.Errorf("idempotency lookup: %w", err)
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	record := WorkoutRecord{
		ID:         uuid.NewString(),
		TenantID:   input.TenantID,
		UserID:     input.UserID,
		Title:      strings.TrimSpace(input.Title),
		Comment:    strings.TrimSpace(input.Comment),
		Start:      input.Start.UTC(),
		InProgress: input.InProgress,
		Exercises:  input.Exercises,
		CreatedAt:  s.now().UTC(),
	}
	if input.End != nil {
		end := input.End.UTC()
		record.End = &end
	}

	if err := s.repo.Create(ctx, record, input.IdempotencyKey); err != nil {
		return nil, false, err
	}
	if err := s.cache.Invalidate(ctx, record.TenantID, record.UserID); err != nil {
		return nil, false, fmt.Errorf("cache invalidation: %w", err)
	}
	return &record, false, nil
}

// GetWorkout fetches by ID.
func (s *Service) GetWorkout(ctx context.Context, tenantID, workoutID string) (*WorkoutRecord, error) {
	record, err := s.repo.Get(ctx, tenantID, workoutID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrWorkoutNotFound
	}
	return record, nil
}

// ListWorkouts fetches a user's history with cursor pagination.
func (s *Service) ListWorkouts(ctx context.Context, tenantID, userID string, cursor *Cursor, limit int) ([]WorkoutRecord, *Cursor, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, fmt.Errorf("%w: user_id is required", ErrInvalidWorkout)
	}
	return s.repo.ListByUser(ctx, tenantID, userID, cursor, limit)
}
