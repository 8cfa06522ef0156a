// Package backup decodes workout history exports and restores them into a store.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"example.com/trainingstats/internal/domain"
)

// FormatVersion is the only export version understood by Decode.
const FormatVersion = 1

// ErrUnsupportedVersion is returned for exports written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Export is the on-disk backup document.
type Export struct {
	Version         int                         `json:"version"`
	ExportedAt      time.Time                   `json:"exported_at"`
	Workouts        []domain.WorkoutRecord      `json:"workouts"`
	CustomExercises []domain.ExerciseDefinition `json:"custom_exercises,omitempty"`
}

// ExerciseStore accepts user-defined exercises.
type ExerciseStore interface {
	UpsertCustom(def domain.ExerciseDefinition) (domain.ExerciseDefinition, error)
}

// WorkoutStore accepts restored workouts.
type WorkoutStore interface {
	FindByIdempotency(ctx context.Context, tenantID, userID, idempotencyKey string) (*domain.WorkoutRecord, error)
	Create(ctx context.Context, record domain.WorkoutRecord, idempotencyKey string) error
}

// WorkoutID maps an exported workout id onto the UUID it is stored under.
// UUIDs are kept; any other id is replaced by a name-based UUID derived from it.
func WorkoutID(exportID string) string {
	if id, err := uuid.Parse(exportID); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(exportID)).String()
}

// Decode reads and validates an export. A missing version is treated as version 1.
func Decode(r io.Reader) (*Export, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if export.Version == 0 {
		export.Version = FormatVersion
	}
	if export.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, export.Version)
	}
	for i, record := range export.Workouts {
		if record.Start.IsZero() {
			return nil, fmt.Errorf("workout %d: start is required", i)
		}
		if record.End != nil && record.End.Before(record.Start) {
			return nil, fmt.Errorf("workout %d: end precedes start", i)
		}
	}
	return &export, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Restore writes the export into the given stores under tenantID and userID.
// Exported workout ids are used as idempotency keys: workouts already restored
// are skipped and not counted.
func (e *Export) Restore(ctx context.Context, workouts WorkoutStore, exercises ExerciseStore, tenantID, userID string) (int, error) {
	var errs error
	for _, def := range e.CustomExercises {
		if _, err := exercises.UpsertCustom(def); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise %q: %w", def.Title, err))
		}
	}

	restored := 0
	for _, record := range e.Workouts {
		if err := ctx.Err(); err != nil {
			return restored, multierr.Append(errs, err)
		}
		key := record.ID
		existing, err := workouts.FindByIdempotency(ctx, tenantID, userID, key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("workout %s: %w", key, err))
			continue
		}
		if existing != nil {
			continue
		}
		record.ID = WorkoutID(key)
		record.TenantID = tenantID
		record.UserID = userID
		if err := workouts.Create(ctx, record, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("workout %s: %w", key, err))
			continue
		}
		restored++
	}
	return restored, errs
}
