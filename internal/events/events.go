// Package events defines the payloads exchanged between the API, the outbox and the consumer.
package events

import (
	"fmt"
	"time"
)

// Event types.
const (
	TypeWorkoutRecorded   = "workout.recorded"
	TypeMilestoneAchieved = "milestone.achieved"
)

// Topics.
const (
	TopicWorkoutEvents   = "workout_events"
	TopicMilestoneEvents = "milestone_events"
)

// HeaderEventType carries the event type on every Kafka message.
const HeaderEventType = "event_type"

// WorkoutRecorded is emitted when a workout is accepted.
type WorkoutRecorded struct {
	WorkoutID     string    `json:"workout_id"`
	TenantID      string    `json:"tenant_id"`
	UserID        string    `json:"user_id"`
	Start         time.Time `json:"start"`
	InProgress    bool      `json:"in_progress"`
	ExerciseCount int       `json:"exercise_count"`
	CompletedSets int       `json:"completed_sets"`
	Volume        float64   `json:"volume"`
}

// MilestoneAchieved is emitted the first time a user's lifetime volume crosses a threshold.
type MilestoneAchieved struct {
	TenantID   string    `json:"tenant_id"`
	UserID     string    `json:"user_id"`
	Milestone  string    `json:"milestone"`
	Threshold  float64   `json:"threshold"`
	Total      float64   `json:"total"`
	AchievedAt time.Time `json:"achieved_at"`
}

// Route describes where an event type is published.
type Route struct {
	Topic         string
	SchemaSubject string
}

var routes = map[string]Route{
	TypeWorkoutRecorded: {
		Topic:         TopicWorkoutEvents,
		SchemaSubject: TopicWorkoutEvents + "-value",
	},
	TypeMilestoneAchieved: {
		Topic:         TopicMilestoneEvents,
		SchemaSubject: TopicMilestoneEvents + "-value",
	},
}

// RouteFor returns the route registered for an event type.
func RouteFor(eventType string) (Route, error) {
	route, ok := routes[eventType]
	if !ok {
		return Route{}, fmt.Errorf("unknown event type: %s", eventType)
	}
	return route, nil
}

// PartitionKey keeps a user's events ordered on one partition.
func PartitionKey(tenantID, userID string) string {
	return tenantID + ":" + userID
}
