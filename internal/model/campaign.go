// internal/model/campaign.go
package model

import "time"

// Campaign statuses. pending is the only start state; completed, cancelled
// and failed are terminal.
const (
	CampaignStatusPending    = "pending"
	CampaignStatusInProgress = "in-progress"
	CampaignStatusCompleted  = "completed"
	CampaignStatusCancelled  = "cancelled"
	CampaignStatusFailed     = "failed"
)

type Campaign struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	UserID         int       `db:"user_id" json:"user_id"`
	Status         string    `db:"status" json:"status"`
	CallFrom       string    `db:"call_from" json:"call_from"`
	Region         string    `db:"region" json:"region"`
	TotalContacts  int       `db:"total_contacts" json:"total_contacts"`
	CompletedCalls int       `db:"completed_calls" json:"completed_calls"`
	FailedCalls    int       `db:"failed_calls" json:"failed_calls"`
	MaxContacts    int       `db:"max_contacts" json:"max_contacts"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether no further status transition is allowed.
func (c *Campaign) Terminal() bool {
	switch c.Status {
	case CampaignStatusCompleted, CampaignStatusCancelled, CampaignStatusFailed:
		return true
	}
	return false
}
