// internal/controller/settings_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

type SettingsController struct {
	SettingsRepo repository.SettingsRepositoryInterface
	Validate     *validator.Validate
}

func (c *SettingsController) GetSystemSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.SettingsRepo.GetSystemSettings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type updateSettingsRequest struct {
	Concurrency         int `json:"concurrency" validate:"min=1,max=1000"`
	DelayBetweenBatches int `json:"delay_between_batches" validate:"min=0,max=600000"`
	DelayBetweenCalls   int `json:"delay_between_calls" validate:"min=0,max=60000"`
}

// UpdateSystemSettings replaces the dispatch tuning. The dispatcher reads
// settings once at run start, so changes apply to subsequent runs only.
func (c *SettingsController) UpdateSystemSettings(w http.ResponseWriter, r *http.Request) {
	var body updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid settings", "details": err.Error()})
		return
	}

	settings, err := c.SettingsRepo.UpdateSystemSettings(&model.SystemSettings{
		Concurrency:         body.Concurrency,
		DelayBetweenBatches: body.DelayBetweenBatches,
		DelayBetweenCalls:   body.DelayBetweenCalls,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
}
