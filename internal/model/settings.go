// internal/model/settings.go
package model

import "time"

// SystemSettings is the singleton dispatch-tuning row.
type SystemSettings struct {
	ID                  int       `db:"id" json:"id"`
	Concurrency         int       `db:"concurrency" json:"concurrency"`
	DelayBetweenBatches int       `db:"delay_between_batches" json:"delay_between_batches"`
	DelayBetweenCalls   int       `db:"delay_between_calls" json:"delay_between_calls"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

const (
	DefaultConcurrency         = 100
	DefaultDelayBetweenBatches = 2000
	DefaultDelayBetweenCalls   = 0
)
