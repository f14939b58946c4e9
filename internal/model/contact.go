// internal/model/contact.go
package model

import "time"

// Contact is one dial target of a campaign. Created once at campaign
// creation, immutable afterwards.
type Contact struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	Phone         string    `db:"phone" json:"phone"`
	OriginalPhone string    `db:"original_phone" json:"original_phone"`
	CampaignID    int       `db:"campaign_id" json:"campaign_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
