package repository

import (
	"database/sql"

	"github.com/voxblast/callcenter-backend/internal/model"
)

// CampaignStatusRepositoryInterface is the global campaign lock: a single
// row naming the one campaign allowed to dial system-wide.
type CampaignStatusRepositoryInterface interface {
	GetActive() (*model.CampaignStatus, error)
	Acquire(campaignID, userID int) (bool, error)
	Release(campaignID int) error
	SetXMLLocked(locked bool) error
}

type CampaignStatusRepository struct {
	DB *sql.DB
}

// ensureRow lazily creates the singleton row on first access.
func (r *CampaignStatusRepository) ensureRow() error {
	_, err := r.DB.Exec(`
        INSERT INTO campaign_status (id, active_campaign_id, active_user_id, xml_locked, last_updated)
        VALUES (1, NULL, NULL, FALSE, NOW())
        ON CONFLICT (id) DO NOTHING
    `)
	return err
}

func (r *CampaignStatusRepository) GetActive() (*model.CampaignStatus, error) {
	if err := r.ensureRow(); err != nil {
		return nil, err
	}

	var s model.CampaignStatus
	err := r.DB.QueryRow(`
        SELECT id, active_campaign_id, active_user_id, xml_locked, last_updated
        FROM campaign_status WHERE id=1
    `).Scan(&s.ID, &s.ActiveCampaignID, &s.ActiveUserID, &s.XMLLocked, &s.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Acquire is an atomic check-and-set against the current holder so two
// campaigns can never start simultaneously. Re-acquiring for the campaign
// that already holds the lock succeeds.
func (r *CampaignStatusRepository) Acquire(campaignID, userID int) (bool, error) {
	if err := r.ensureRow(); err != nil {
		return false, err
	}

	res, err := r.DB.Exec(`
        UPDATE campaign_status
        SET active_campaign_id=$1, active_user_id=$2, last_updated=NOW()
        WHERE id=1 AND (active_campaign_id IS NULL OR active_campaign_id=$1)
    `, campaignID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Release clears the holder and the xml lock, but only if the given campaign
// still holds the slot. Releasing twice, or after someone else acquired, is
// a no-op, which lets the cancel path and the dispatcher both release safely.
func (r *CampaignStatusRepository) Release(campaignID int) error {
	_, err := r.DB.Exec(`
        UPDATE campaign_status
        SET active_campaign_id=NULL, active_user_id=NULL, xml_locked=FALSE, last_updated=NOW()
        WHERE id=1 AND active_campaign_id=$1
    `, campaignID)
	return err
}

func (r *CampaignStatusRepository) SetXMLLocked(locked bool) error {
	if err := r.ensureRow(); err != nil {
		return err
	}
	_, err := r.DB.Exec(`
        UPDATE campaign_status SET xml_locked=$1, last_updated=NOW() WHERE id=1
    `, locked)
	return err
}

var _ CampaignStatusRepositoryInterface = (*CampaignStatusRepository)(nil)
