// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published when a signup commits.  It carries
// enough information for the welcome-email consumer to act without
// querying the primary database.  Delivery is best-effort: the signup
// response never waits for, or fails on, this event.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}
