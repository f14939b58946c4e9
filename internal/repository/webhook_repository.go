package repository

import (
	"database/sql"
	"time"

	"github.com/voxblast/callcenter-backend/internal/model"
)

type WebhookRepositoryInterface interface {
	Create(resp *model.WebhookResponse) error
	ListByUser(userID, limit int) ([]*model.WebhookResponse, error)
	GetByID(id int) (*model.WebhookResponse, error)
	DeleteByUser(id, userID int) (bool, error)
}

// WebhookRepository stores callee button presses reported by the provider.
type WebhookRepository struct {
	DB *sql.DB
}

func (r *WebhookRepository) Create(resp *model.WebhookResponse) error {
	resp.Timestamp = time.Now()
	query := `
        INSERT INTO webhook_responses (phone_number, button_pressed, campaign_id, contact_id, contact_name, contact_email, campaign_name, user_id, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(query, resp.PhoneNumber, resp.ButtonPressed, resp.CampaignID,
		resp.ContactID, resp.ContactName, resp.ContactEmail, resp.CampaignName,
		resp.UserID, resp.Timestamp).Scan(&resp.ID)
}

func (r *WebhookRepository) ListByUser(userID, limit int) ([]*model.WebhookResponse, error) {
	rows, err := r.DB.Query(`
        SELECT id, phone_number, button_pressed, campaign_id, contact_id, contact_name, contact_email, campaign_name, user_id, timestamp
        FROM webhook_responses WHERE user_id=$1 ORDER BY timestamp DESC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []*model.WebhookResponse{}
	for rows.Next() {
		var w model.WebhookResponse
		if err := rows.Scan(&w.ID, &w.PhoneNumber, &w.ButtonPressed, &w.CampaignID,
			&w.ContactID, &w.ContactName, &w.ContactEmail, &w.CampaignName,
			&w.UserID, &w.Timestamp); err != nil {
			return nil, err
		}
		responses = append(responses, &w)
	}
	return responses, rows.Err()
}

func (r *WebhookRepository) GetByID(id int) (*model.WebhookResponse, error) {
	var w model.WebhookResponse
	err := r.DB.QueryRow(`
        SELECT id, phone_number, button_pressed, campaign_id, contact_id, contact_name, contact_email, campaign_name, user_id, timestamp
        FROM webhook_responses WHERE id=$1
    `, id).Scan(&w.ID, &w.PhoneNumber, &w.ButtonPressed, &w.CampaignID,
		&w.ContactID, &w.ContactName, &w.ContactEmail, &w.CampaignName,
		&w.UserID, &w.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// DeleteByUser removes a response only when it belongs to the user.
func (r *WebhookRepository) DeleteByUser(id, userID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM webhook_responses WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var _ WebhookRepositoryInterface = (*WebhookRepository)(nil)
