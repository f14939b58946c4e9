// internal/controller/webhook_controller.go
package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/service"
)

type WebhookController struct {
	WebhookService *service.WebhookService
}

// HandleWebhook is the unauthenticated endpoint the telephony provider hits
// when a callee presses a key. It always answers 200 so the provider does not
// retry; an unmatched number is logged, not rejected.
func (c *WebhookController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		http.Error(w, "number query parameter is required", http.StatusBadRequest)
		return
	}
	button := r.URL.Query().Get("button")
	if button == "" {
		button = "1"
	}

	campaigns, err := c.WebhookService.RecordButtonPress(number, button)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("response recorded for %d campaign(s)", len(campaigns)),
		"campaigns": campaigns,
	})
}

func (c *WebhookController) ListResponses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	responses, err := c.WebhookService.ListResponses(middleware.UserID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

func (c *WebhookController) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid response id", http.StatusBadRequest)
		return
	}

	if err := c.WebhookService.DeleteResponse(id, middleware.UserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "response deleted"})
}
