package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
	"github.com/voxblast/callcenter-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListByUser(userID, limit int) ([]*model.Campaign, error)
	List(limit int) ([]*model.Campaign, error)
	UpdateStatus(campaignID int, status string) error
	UpdateProgress(campaignID, completedCalls, failedCalls int) error
	Finish(campaignID int, status string, completedCalls, failedCalls int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, user_id, status, call_from, region, total_contacts, completed_calls, failed_calls, max_contacts, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.Status, &c.CallFrom, &c.Region,
		&c.TotalContacts, &c.CompletedCalls, &c.FailedCalls, &c.MaxContacts,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = model.CampaignStatusPending
	}
	query := `
        INSERT INTO campaigns (name, user_id, status, call_from, region, total_contacts, completed_calls, failed_calls, max_contacts, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.UserID, c.Status, c.CallFrom, c.Region,
		c.TotalContacts, c.CompletedCalls, c.FailedCalls, c.MaxContacts,
		c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	c, err := scanCampaign(r.DB.QueryRow(`SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListByUser(userID, limit int) ([]*model.Campaign, error) {
	rows, err := r.DB.Query(`
        SELECT `+campaignColumns+` FROM campaigns
        WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

func (r *CampaignRepository) List(limit int) ([]*model.Campaign, error) {
	rows, err := r.DB.Query(`
        SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

func collectCampaigns(rows *sql.Rows) ([]*model.Campaign, error) {
	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`, status, campaignID)
	return err
}

// UpdateProgress persists the running tallies. Called once per settled batch,
// never mid-batch.
func (r *CampaignRepository) UpdateProgress(campaignID, completedCalls, failedCalls int) error {
	_, err := r.DB.Exec(`
        UPDATE campaigns SET completed_calls=$1, failed_calls=$2, updated_at=NOW() WHERE id=$3
    `, completedCalls, failedCalls, campaignID)
	return err
}

// Finish writes the terminal status together with the final counts.
func (r *CampaignRepository) Finish(campaignID int, status string, completedCalls, failedCalls int) error {
	_, err := r.DB.Exec(`
        UPDATE campaigns SET status=$1, completed_calls=$2, failed_calls=$3, updated_at=NOW() WHERE id=$4
    `, status, completedCalls, failedCalls, campaignID)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
