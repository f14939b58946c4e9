// internal/model/campaign_status.go
package model

import "time"

// CampaignStatus is the single-row global lock: at most one campaign may be
// dialing system-wide. XMLLocked blocks external call-flow config edits
// while a campaign runs.
type CampaignStatus struct {
	ID               int       `db:"id" json:"-"`
	ActiveCampaignID *int      `db:"active_campaign_id" json:"campaign_id"`
	ActiveUserID     *int      `db:"active_user_id" json:"user_id"`
	XMLLocked        bool      `db:"xml_locked" json:"xml_locked"`
	LastUpdated      time.Time `db:"last_updated" json:"-"`
}
