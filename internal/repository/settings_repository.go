package repository

import (
	"database/sql"

	"github.com/voxblast/callcenter-backend/internal/model"
)

type SettingsRepositoryInterface interface {
	GetSystemSettings() (*model.SystemSettings, error)
	UpdateSystemSettings(s *model.SystemSettings) (*model.SystemSettings, error)
}

type SettingsRepository struct {
	DB *sql.DB
}

// GetSystemSettings returns the singleton dispatch settings, inserting the
// defaults on first read.
func (r *SettingsRepository) GetSystemSettings() (*model.SystemSettings, error) {
	s, err := r.scanSettings()
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	_, err = r.DB.Exec(`
        INSERT INTO system_settings (concurrency, delay_between_batches, delay_between_calls, updated_at)
        VALUES ($1, $2, $3, NOW())
    `, model.DefaultConcurrency, model.DefaultDelayBetweenBatches, model.DefaultDelayBetweenCalls)
	if err != nil {
		return nil, err
	}
	return r.scanSettings()
}

func (r *SettingsRepository) scanSettings() (*model.SystemSettings, error) {
	var s model.SystemSettings
	err := r.DB.QueryRow(`
        SELECT id, concurrency, delay_between_batches, delay_between_calls, updated_at
        FROM system_settings ORDER BY id LIMIT 1
    `).Scan(&s.ID, &s.Concurrency, &s.DelayBetweenBatches, &s.DelayBetweenCalls, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateSystemSettings(s *model.SystemSettings) (*model.SystemSettings, error) {
	current, err := r.GetSystemSettings()
	if err != nil {
		return nil, err
	}

	_, err = r.DB.Exec(`
        UPDATE system_settings
        SET concurrency=$1, delay_between_batches=$2, delay_between_calls=$3, updated_at=NOW()
        WHERE id=$4
    `, s.Concurrency, s.DelayBetweenBatches, s.DelayBetweenCalls, current.ID)
	if err != nil {
		return nil, err
	}
	return r.scanSettings()
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
