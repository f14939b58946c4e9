// internal/controller/call_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/service"
)

type CallController struct {
	CallService *service.CallService
	Validate    *validator.Validate
}

type makeCallRequest struct {
	CallFrom string `json:"call_from" validate:"required,min=10"`
	CallTo   string `json:"call_to" validate:"required,min=10"`
	Region   string `json:"region" validate:"required,oneof=US-EAST US-WEST EU-CENTRAL ASIA-PACIFIC"`
}

// MakeCall places one ad-hoc call. A gateway failure past the precondition
// checks is reported with 502 and the recorded attempt, since the credit was
// already spent.
func (c *CallController) MakeCall(w http.ResponseWriter, r *http.Request) {
	var body makeCallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid call data", "details": err.Error()})
		return
	}

	call, remaining, err := c.CallService.MakeCall(r.Context(), middleware.UserID(r), body.CallFrom, body.CallTo, body.Region)
	if err != nil {
		if call != nil && call.Status == model.CallStatusFailed {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"success":           false,
				"error":             err.Error(),
				"call":              call,
				"remaining_credits": remaining,
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"call":              call,
		"remaining_credits": remaining,
	})
}

func (c *CallController) ListCalls(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	calls, err := c.CallService.History(middleware.UserID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calls)
}

func (c *CallController) CallStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CallService.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
