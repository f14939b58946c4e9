// internal/model/call.go
package model

import "time"

const (
	CallStatusCompleted = "completed"
	CallStatusFailed    = "failed"
)

// Call is one attempt against the telephony provider, single or bulk.
// Append-only: one row per attempt.
type Call struct {
	ID           int       `db:"id" json:"id"`
	CallFrom     string    `db:"call_from" json:"call_from"`
	CallTo       string    `db:"call_to" json:"call_to"`
	Region       string    `db:"region" json:"region"`
	Status       string    `db:"status" json:"status"`
	CallID       string    `db:"call_id" json:"call_id,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	UserID       int       `db:"user_id" json:"user_id"`
	CreditsCost  int       `db:"credits_cost" json:"credits_cost"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}
