package types

// Status is a type for the lifecycle status of a resource row in the database.
// It is used to determine if a row should be included in queries and is
// distinct from the subscription's own state machine status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)
