package domain

import "time"

// ActivityAction is the kind of change recorded in the activity trail.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityDeleted ActivityAction = "deleted"
)

// StudentActivity is one entry of the audit trail for a student record.
type StudentActivity struct {
	StudentID string
	Action    ActivityAction
	ActorID   string // empty for anonymous writes
	Email     string
	At        time.Time
}
