package repository

import (
	"database/sql"
	"time"

	"github.com/voxblast/callcenter-backend/internal/model"
)

type ContactRepositoryInterface interface {
	CreateBatch(contacts []*model.Contact) error
	ListByCampaign(campaignID int) ([]*model.Contact, error)
	ListByPhone(phone string) ([]*model.Contact, error)
}

type ContactRepository struct {
	DB *sql.DB
}

// CreateBatch inserts a campaign's contacts inside one transaction so a
// half-created contact list never exists.
func (r *ContactRepository) CreateBatch(contacts []*model.Contact) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT INTO contacts (name, email, phone, original_phone, campaign_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, c := range contacts {
		c.CreatedAt = now
		if err := stmt.QueryRow(c.Name, c.Email, c.Phone, c.OriginalPhone, c.CampaignID, c.CreatedAt).Scan(&c.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByCampaign returns the campaign's contacts in insertion order, which
// fixes the batch order for dispatch.
func (r *ContactRepository) ListByCampaign(campaignID int) ([]*model.Contact, error) {
	rows, err := r.DB.Query(`
        SELECT id, name, email, phone, original_phone, campaign_id, created_at
        FROM contacts WHERE campaign_id=$1 ORDER BY id
    `, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *ContactRepository) ListByPhone(phone string) ([]*model.Contact, error) {
	rows, err := r.DB.Query(`
        SELECT id, name, email, phone, original_phone, campaign_id, created_at
        FROM contacts WHERE phone=$1
    `, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.OriginalPhone, &c.CampaignID, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
