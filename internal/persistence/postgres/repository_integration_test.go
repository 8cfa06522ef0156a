//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/trainingstats/internal/domain"
)

func TestRepositoryRoundTripAndTenantIsolation(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)
	repo := NewRepository(pool)

	tenantID := uuid.NewString()
	userID := uuid.NewString()
	start := time.Date(2025, time.October, 20, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	record := domain.WorkoutRecord{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		Title:     "Legs",
		Start:     start,
		End:       &end,
		CreatedAt: time.Now().UTC(),
		Exercises: []domain.ExerciseEntry{{
			ExerciseID: uuid.New(),
			Sets:       []domain.SetEntry{{Weight: 100, Repetitions: 5, Completed: true}},
		}},
	}
	require.NoError(t, repo.Create(ctx, record, "key-1"))

	stored, err := repo.Get(ctx, tenantID, record.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, record.Exercises, stored.Exercises)
	require.True(t, end.Equal(*stored.End))

	replay, err := repo.FindByIdempotency(ctx, tenantID, userID, "key-1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	require.Equal(t, record.ID, replay.ID)

	storedOther, err := repo.Get(ctx, uuid.NewString(), record.ID)
	require.NoError(t, err)
	require.Nil(t, storedOther)

	var pending int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE aggregate_id=$1`, record.ID).Scan(&pending))
	require.Equal(t, 1, pending)
}

func TestListFinishedFiltersWindowAndInProgress(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)
	repo := NewRepository(pool)

	tenantID := uuid.NewString()
	userID := uuid.NewString()
	base := time.Date(2025, time.October, 1, 7, 0, 0, 0, time.UTC)
	for i, inProgress := range []bool{false, false, true, false} {
		require.NoError(t, repo.Create(ctx, domain.WorkoutRecord{
			ID:         uuid.NewString(),
			TenantID:   tenantID,
			UserID:     userID,
			Start:      base.AddDate(0, 0, i),
			InProgress: inProgress,
			CreatedAt:  time.Now().UTC(),
		}, ""))
	}

	to := base.AddDate(0, 0, 3)
	records, err := repo.ListFinished(ctx, tenantID, userID, base.AddDate(0, 0, 1), &to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Start.Equal(base.AddDate(0, 0, 1)))

	all, err := repo.ListFinished(ctx, tenantID, userID, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.True(t, all[0].Start.After(all[1].Start))
}

func TestAchievementStoreRecordsOnce(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)
	store := NewAchievementStore(pool)

	tenantID := uuid.NewString()
	userID := uuid.NewString()
	milestones := []domain.Milestone{{Name: "Baby Elephant", Weight: 120}, {Name: "Gorilla", Weight: 200}}

	inserted, err := store.Record(ctx, tenantID, userID, 250, milestones, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	inserted, err = store.Record(ctx, tenantID, userID, 300, milestones, time.Now().UTC())
	require.NoError(t, err)
	require.Zero(t, inserted)

	achieved, err := store.Achieved(ctx, tenantID, userID)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"Baby Elephant": true, "Gorilla": true}, achieved)
}

func TestAchievementStoreQueuesEventsPerTenant(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t, ctx)
	store := NewAchievementStore(pool)

	userID := "u1"
	milestones := []domain.Milestone{{Name: "Gorilla", Weight: 200}}
	for _, tenantID := range []string{uuid.NewString(), uuid.NewString()} {
		inserted, err := store.Record(ctx, tenantID, userID, 250, milestones, time.Now().UTC())
		require.NoError(t, err)
		require.Equal(t, 1, inserted)
	}

	var queued int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT tenant_id) FROM outbox WHERE event_type='milestone.achieved' AND aggregate_id=$1`,
		userID+":Gorilla").Scan(&queued))
	require.Equal(t, 2, queued)
}

func startDatabase(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("trainingstats"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	contents, err := os.ReadFile(resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
	return pool
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
