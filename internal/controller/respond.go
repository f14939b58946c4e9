// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses. Lock contention gets 423
// with the current holder so the UI can show who is dialing.
func writeError(w http.ResponseWriter, err error) {
	var notFound *appErrors.ErrCampaignNotFound
	var validation *appErrors.ErrValidation
	var credits *appErrors.ErrInsufficientCredits
	var active *appErrors.ErrCampaignActive
	var forbidden *appErrors.ErrForbidden
	var transition *appErrors.ErrInvalidTransition

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	case errors.As(err, &credits):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"required":  credits.Required,
			"available": credits.Available,
		})
	case errors.As(err, &forbidden):
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "error": err.Error()})
	case errors.As(err, &active):
		writeJSON(w, http.StatusLocked, map[string]any{
			"success":         false,
			"error":           err.Error(),
			"active_campaign": active.ActiveCampaignID,
			"active_user":     active.ActiveUserID,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
	}
}
