package outbox

import "example.com/trainingstats/internal/events"

const workoutRecordedSchema = `{
  "type": "object",
  "title": "WorkoutRecorded",
  "properties": {
    "workout_id": {"type": "string"},
    "tenant_id": {"type": "string"},
    "user_id": {"type": "string"},
    "start": {"type": "string", "format": "date-time"},
    "in_progress": {"type": "boolean"},
    "exercise_count": {"type": "integer", "minimum": 0},
    "completed_sets": {"type": "integer", "minimum": 0},
    "volume": {"type": "number", "minimum": 0}
  },
  "required": ["workout_id", "tenant_id", "user_id", "start", "in_progress", "exercise_count", "completed_sets", "volume"],
  "additionalProperties": false
}`

const milestoneAchievedSchema = `{
  "type": "object",
  "title": "MilestoneAchieved",
  "properties": {
    "tenant_id": {"type": "string"},
    "user_id": {"type": "string"},
    "milestone": {"type": "string"},
    "threshold": {"type": "number"},
    "total": {"type": "number"},
    "achieved_at": {"type": "string", "format": "date-time"}
  },
  "required": ["tenant_id", "user_id", "milestone", "threshold", "total", "achieved_at"],
  "additionalProperties": false
}`

var schemaCatalog = map[string]string{
	events.TypeWorkoutRecorded:   workoutRecordedSchema,
	events.TypeMilestoneAchieved: milestoneAchievedSchema,
}
