package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/events"
)

// AchievementStore records which milestones a user has reached.
type AchievementStore struct {
	pool *pgxpool.Pool
}

// NewAchievementStore constructs an AchievementStore.
func NewAchievementStore(pool *pgxpool.Pool) *AchievementStore {
	return &AchievementStore{pool: pool}
}

// Achieved returns the milestone names already recorded for the user.
func (s *AchievementStore) Achieved(ctx context.Context, tenantID, userID string) (map[string]bool, error) {
	achieved := make(map[string]bool)
	err := withTenant(ctx, s.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT milestone FROM milestone_achievements WHERE tenant_id=$1 AND user_id=$2`,
			tenantID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			achieved[name] = true
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return achieved, nil
}

// Record stores newly achieved milestones and queues a milestone.achieved
// event for each one not seen before.
func (s *AchievementStore) Record(ctx context.Context, tenantID, userID string, total float64, milestones []domain.Milestone, at time.Time) (int, error) {
	if len(milestones) == 0 {
		return 0, nil
	}

	inserted := 0
	err := withTenant(ctx, s.pool, tenantID, func(tx pgx.Tx) error {
		for _, m := range milestones {
			tag, err := tx.Exec(ctx,
				`INSERT INTO milestone_achievements (tenant_id, user_id, milestone, threshold, total, achieved_at)
                VALUES ($1,$2,$3,$4,$5,$6)
                ON CONFLICT (tenant_id, user_id, milestone) DO NOTHING`,
				tenantID, userID, m.Name, m.Weight, total, at)
			if err != nil {
				return fmt.Errorf("insert achievement %q: %w", m.Name, err)
			}
			if tag.RowsAffected() == 0 {
				continue
			}
			inserted++

			if err := insertOutbox(ctx, tx, outboxEvent{
				TenantID:      tenantID,
				AggregateType: "milestone",
				AggregateID:   fmt.Sprintf("%s:%s", userID, m.Name),
				EventType:     events.TypeMilestoneAchieved,
				PartitionKey:  events.PartitionKey(tenantID, userID),
				Payload: events.MilestoneAchieved{
					TenantID:   tenantID,
					UserID:     userID,
					Milestone:  m.Name,
					Threshold:  m.Weight,
					Total:      total,
					AchievedAt: at,
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
