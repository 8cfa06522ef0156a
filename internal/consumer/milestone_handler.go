package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/events"
)

// MilestoneSource computes a user's current milestone progress.
type MilestoneSource interface {
	Milestones(ctx context.Context, tenantID, userID string) (analytics.MilestoneProgress, error)
}

// AchievementStore remembers which milestones each user has reached.
type AchievementStore interface {
	Achieved(ctx context.Context, tenantID, userID string) (map[string]bool, error)
	Record(ctx context.Context, tenantID, userID string, total float64, milestones []domain.Milestone, at time.Time) (int, error)
}

// MilestoneHandler recomputes milestone progress after each recorded workout
// and stores milestones the user reached for the first time.
type MilestoneHandler struct {
	source MilestoneSource
	store  AchievementStore
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewMilestoneHandler constructs a MilestoneHandler.
func NewMilestoneHandler(source MilestoneSource, store AchievementStore, logger logrus.FieldLogger) *MilestoneHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MilestoneHandler{source: source, store: store, logger: logger, now: time.Now}
}

// Handle implements Handler. Events other than workout.recorded are ignored.
func (h *MilestoneHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.TypeWorkoutRecorded {
		return nil
	}

	var event events.WorkoutRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decode workout.recorded: %w", err)
	}
	if event.InProgress {
		return nil
	}
	tenantID := event.TenantID
	if tenantID == "" {
		tenantID = msg.TenantID
	}
	if tenantID == "" || event.UserID == "" {
		return fmt.Errorf("workout.recorded %s: tenant_id and user_id are required", event.WorkoutID)
	}

	progress, err := h.source.Milestones(ctx, tenantID, event.UserID)
	if err != nil {
		return fmt.Errorf("compute milestones: %w", err)
	}
	if len(progress.Achieved) == 0 {
		return nil
	}

	known, err := h.store.Achieved(ctx, tenantID, event.UserID)
	if err != nil {
		return fmt.Errorf("load achievements: %w", err)
	}
	fresh := make([]domain.Milestone, 0)
	for _, m := range progress.Achieved {
		if !known[m.Name] {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	inserted, err := h.store.Record(ctx, tenantID, event.UserID, progress.Total, fresh, h.now().UTC())
	if err != nil {
		return fmt.Errorf("record achievements: %w", err)
	}
	milestonesAchieved.Add(float64(inserted))
	h.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"user_id":   event.UserID,
		"count":     inserted,
		"total":     progress.Total,
	}).Info("milestones achieved")
	return nil
}
