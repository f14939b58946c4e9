// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Validate        *validator.Validate
}

type createBulkCallRequest struct {
	Name     string `json:"name" validate:"required"`
	CallFrom string `json:"call_from" validate:"required,min=10"`
	Region   string `json:"region" validate:"required,oneof=US-EAST US-WEST EU-CENTRAL ASIA-PACIFIC"`
	Contacts string `json:"contacts" validate:"required"`
}

func (c *CampaignController) CreateBulkCall(w http.ResponseWriter, r *http.Request) {
	var body createBulkCallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid bulk call data", "details": err.Error()})
		return
	}

	userID := middleware.UserID(r)
	result, err := c.CampaignService.Create(userID, body.Name, body.CallFrom, body.Region, body.Contacts)
	if err != nil {
		writeError(w, err)
		return
	}

	message := fmt.Sprintf("Bulk call campaign %q created with %d contacts", body.Name, result.ContactsCreated)
	if result.ContactsExcluded > 0 {
		message = fmt.Sprintf("Bulk call campaign %q created with %d contacts (limited by available credits: %d). %d contacts were excluded.",
			body.Name, result.ContactsCreated, result.UserCredits, result.ContactsExcluded)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"bulk_call":         result.Campaign,
		"contacts_created":  result.ContactsCreated,
		"contacts_excluded": result.ContactsExcluded,
		"user_credits":      result.UserCredits,
		"message":           message,
	})
}

func (c *CampaignController) ListBulkCalls(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	campaigns, err := c.CampaignService.List(middleware.UserID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetBulkCall(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// StartBulkCall is non-blocking: it acquires the lock, enqueues the run and
// returns the in-progress snapshot while the dispatcher works in the
// background.
func (c *CampaignController) StartBulkCall(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.Start(id, middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Bulk call campaign %q started", campaign.Name),
		"bulk_call": campaign,
	})
}

func (c *CampaignController) CancelBulkCall(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.Cancel(id, middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Bulk call campaign %q has been cancelled", campaign.Name),
		"bulk_call": campaign,
	})
}

// CampaignStatus reports the global lock holder.
func (c *CampaignController) CampaignStatus(w http.ResponseWriter, r *http.Request) {
	status, err := c.CampaignService.ActiveStatus()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}
