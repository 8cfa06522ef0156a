//go:build integration

package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/trainingstats/internal/events"
)

func TestDispatcherPublishesWorkoutEvents(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	seedOutbox(t, ctx, pool, events.TypeWorkoutRecorded, 3)

	producer := &stubProducer{}
	registry := &stubRegistry{id: 7}
	d := NewDispatcher(pool, producer, registry, time.Second, 10)

	before := testutil.ToFloat64(deliveredCounter)
	require.NoError(t, d.processBatch(ctx))
	require.Equal(t, 3.0, testutil.ToFloat64(deliveredCounter)-before)

	require.Len(t, producer.writes, 1)
	require.Equal(t, events.TopicWorkoutEvents, producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 3)
	require.Equal(t, 1, registry.calls)

	require.Zero(t, countRows(t, ctx, pool, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`))

	// A drained outbox is a no-op.
	require.NoError(t, d.processBatch(ctx))
	require.Len(t, producer.writes, 1)
}

func TestDispatcherRoutesFailedBatchToDLQ(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	seedOutbox(t, ctx, pool, events.TypeWorkoutRecorded, 2)

	d := NewDispatcher(pool, &stubProducer{err: errors.New("broker unavailable")}, &stubRegistry{id: 7}, time.Second, 10)

	beforeFailed := testutil.ToFloat64(failedCounter)
	beforeDLQ := testutil.ToFloat64(dlqCounter.WithLabelValues(events.TopicWorkoutEvents))
	require.NoError(t, d.processBatch(ctx))
	require.Equal(t, 2.0, testutil.ToFloat64(failedCounter)-beforeFailed)
	require.Equal(t, 2.0, testutil.ToFloat64(dlqCounter.WithLabelValues(events.TopicWorkoutEvents))-beforeDLQ)

	require.Equal(t, 2, countRows(t, ctx, pool, `SELECT COUNT(*) FROM outbox_dlq WHERE reason LIKE '%broker unavailable%'`))
	require.Zero(t, countRows(t, ctx, pool, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`))
}

func TestDispatcherUnknownEventTypeMovesBatchToDLQ(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	seedOutbox(t, ctx, pool, "workout.deleted", 1)

	producer := &stubProducer{}
	d := NewDispatcher(pool, producer, &stubRegistry{id: 7}, time.Second, 10)

	require.NoError(t, d.processBatch(ctx))
	require.Empty(t, producer.writes)
	require.Equal(t, 1, countRows(t, ctx, pool, `SELECT COUNT(*) FROM outbox_dlq WHERE reason LIKE '%no schema metadata%'`))
}

type slowProducer struct {
	delay time.Duration
}

func (p slowProducer) WriteMessages(ctx context.Context, _ string, _ ...kafka.Message) error {
	select {
	case <-time.After(p.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDispatcherBatchDurationIncludesDelivery(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	seedOutbox(t, ctx, pool, events.TypeWorkoutRecorded, 1)

	d := NewDispatcher(pool, slowProducer{delay: 200 * time.Millisecond}, &stubRegistry{id: 7}, time.Second, 10)

	beforeCount, beforeSum := histogramSample(t)
	require.NoError(t, d.processBatch(ctx))
	afterCount, afterSum := histogramSample(t)

	require.Equal(t, beforeCount+1, afterCount)
	require.GreaterOrEqual(t, afterSum-beforeSum, 0.2)
}

func histogramSample(t *testing.T) (uint64, float64) {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, batchDuration.Write(&metric))
	return metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum()
}

func seedOutbox(t *testing.T, ctx context.Context, pool *pgxpool.Pool, eventType string, count int) {
	t.Helper()

	tenantID := uuid.NewString()
	for i := 0; i < count; i++ {
		workoutID := uuid.NewString()
		payload, err := json.Marshal(map[string]any{
			"workout_id":  workoutID,
			"tenant_id":   tenantID,
			"user_id":     "user-1",
			"finished_at": time.Now().UTC(),
		})
		require.NoError(t, err)

		_, err = pool.Exec(ctx,
			`INSERT INTO outbox (tenant_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
             VALUES ($1,'workout',$2,$3,$4,$5,$6,$7,$8)`,
			tenantID, workoutID, eventType, events.TopicWorkoutEvents, events.TopicWorkoutEvents+"-value",
			tenantID+":user-1", payload, eventType+":"+workoutID,
		)
		require.NoError(t, err)
	}
}

func countRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, query string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(ctx, query).Scan(&n))
	return n
}

func setupPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
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

	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		p, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return false
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return false
		}
		pool = p
		return true
	}, 30*time.Second, time.Second)
	t.Cleanup(pool.Close)

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	contents, err := os.ReadFile(filepath.Join(filepath.Dir(file), "../../db/postgres/migrations/0001_init.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
	return pool
}
