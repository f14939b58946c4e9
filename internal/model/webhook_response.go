// internal/model/webhook_response.go
package model

import "time"

// WebhookResponse records a callee pressing a key during the call flow.
type WebhookResponse struct {
	ID            int       `db:"id" json:"id"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number"`
	ButtonPressed string    `db:"button_pressed" json:"button_pressed"`
	CampaignID    *int      `db:"campaign_id" json:"campaign_id,omitempty"`
	ContactID     *int      `db:"contact_id" json:"contact_id,omitempty"`
	ContactName   string    `db:"contact_name" json:"contact_name,omitempty"`
	ContactEmail  string    `db:"contact_email" json:"contact_email,omitempty"`
	CampaignName  string    `db:"campaign_name" json:"campaign_name,omitempty"`
	UserID        int       `db:"user_id" json:"user_id"`
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
}
