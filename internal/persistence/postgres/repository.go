// Package postgres persists workouts, outbox events and milestone achievements with pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/events"
	"example.com/trainingstats/internal/observability"
)

const workoutColumns = `workout_id, tenant_id, user_id, title, comment, started_at, ended_at, in_progress, exercises, created_at`

// Repository provides Postgres-backed persistence for workouts and their outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// withTenant runs fn in a transaction scoped to the tenant's row-level security policy.
func withTenant(ctx context.Context, pool *pgxpool.Pool, tenantID string, fn func(pgx.Tx) error) (err error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID); err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (domain.WorkoutRecord, error) {
	var (
		record    domain.WorkoutRecord
		exercises []byte
	)
	if err := row.Scan(&record.ID, &record.TenantID, &record.UserID, &record.Title, &record.Comment,
		&record.Start, &record.End, &record.InProgress, &exercises, &record.CreatedAt); err != nil {
		return domain.WorkoutRecord{}, err
	}
	if len(exercises) > 0 {
		if err := json.Unmarshal(exercises, &record.Exercises); err != nil {
			return domain.WorkoutRecord{}, fmt.Errorf("decode exercises for workout %s: %w", record.ID, err)
		}
	}
	return record, nil
}

func (r *Repository) queryOne(ctx context.Context, tenantID, query string, args ...any) (*domain.WorkoutRecord, error) {
	var found *domain.WorkoutRecord
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		record, err := scanWorkout(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *Repository) queryMany(ctx context.Context, tenantID, query string, args ...any) ([]domain.WorkoutRecord, error) {
	results := make([]domain.WorkoutRecord, 0)
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanWorkout(rows)
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FindByIdempotency checks if a workout already exists for the supplied idempotency key.
func (r *Repository) FindByIdempotency(ctx context.Context, tenantID, userID, idempotencyKey string) (*domain.WorkoutRecord, error) {
	if idempotencyKey == "" {
		return nil, nil
	}
	return r.queryOne(ctx, tenantID,
		`SELECT `+workoutColumns+` FROM workouts WHERE tenant_id=$1 AND user_id=$2 AND idempotency_key=$3`,
		tenantID, userID, idempotencyKey)
}

// Create persists the workout and its workout.recorded outbox event in one transaction.
func (r *Repository) Create(ctx context.Context, record domain.WorkoutRecord, idempotencyKey string) error {
	exercises, err := json.Marshal(record.Exercises)
	if err != nil {
		return fmt.Errorf("encode exercises: %w", err)
	}

	err = withTenant(ctx, r.pool, record.TenantID, func(tx pgx.Tx) error {
		const insertWorkout = `INSERT INTO workouts (` + workoutColumns + `, idempotency_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

		if _, err := tx.Exec(ctx, insertWorkout,
			record.ID,
			record.TenantID,
			record.UserID,
			record.Title,
			record.Comment,
			record.Start,
			record.End,
			record.InProgress,
			exercises,
			record.CreatedAt,
			nullIfEmpty(idempotencyKey),
		); err != nil {
			return err
		}

		return insertOutbox(ctx, tx, outboxEvent{
			TenantID:      record.TenantID,
			AggregateType: "workout",
			AggregateID:   record.ID,
			EventType:     events.TypeWorkoutRecorded,
			PartitionKey:  events.PartitionKey(record.TenantID, record.UserID),
			Payload: events.WorkoutRecorded{
				WorkoutID:     record.ID,
				TenantID:      record.TenantID,
				UserID:        record.UserID,
				Start:         record.Start,
				InProgress:    record.InProgress,
				ExerciseCount: len(record.Exercises),
				CompletedSets: record.CompletedSets(),
				Volume:        record.CompletedVolume(domain.MetricWeightTimesReps),
			},
		})
	})
	if err != nil {
		return err
	}
	observability.RecordWorkoutPersisted(record.CreatedAt)
	return nil
}

// Get retrieves a workout by ID, nil when absent or owned by another tenant.
func (r *Repository) Get(ctx context.Context, tenantID, workoutID string) (*domain.WorkoutRecord, error) {
	return r.queryOne(ctx, tenantID,
		`SELECT `+workoutColumns+` FROM workouts WHERE tenant_id=$1 AND workout_id=$2`,
		tenantID, workoutID)
}

// ListByUser returns workouts for a user ordered by start descending.
func (r *Repository) ListByUser(ctx context.Context, tenantID, userID string, cursor *domain.Cursor, limit int) ([]domain.WorkoutRecord, *domain.Cursor, error) {
	args := []any{tenantID, userID, limit}
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE tenant_id=$1 AND user_id=$2`
	if cursor != nil {
		query += ` AND (started_at, workout_id) < ($4, $5)`
		args = append(args, cursor.Start, cursor.ID)
	}
	query += ` ORDER BY started_at DESC, workout_id DESC LIMIT $3`

	results, err := r.queryMany(ctx, tenantID, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{Start: last.Start, ID: last.ID}
	}
	return results, next, nil
}

// ListFinished implements domain.WorkoutQuery.
func (r *Repository) ListFinished(ctx context.Context, tenantID, userID string, from time.Time, to *time.Time) ([]domain.WorkoutRecord, error) {
	args := []any{tenantID, userID, from}
	query := `SELECT ` + workoutColumns + ` FROM workouts
        WHERE tenant_id=$1 AND user_id=$2 AND NOT in_progress AND started_at >= $3`
	if to != nil {
		query += ` AND started_at < $4`
		args = append(args, *to)
	}
	query += ` ORDER BY started_at DESC, workout_id DESC`
	return r.queryMany(ctx, tenantID, query, args...)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
