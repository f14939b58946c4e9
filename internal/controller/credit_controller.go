// internal/controller/credit_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/voxblast/callcenter-backend/internal/middleware"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

type CreditController struct {
	CreditRepo repository.CreditRepositoryInterface
	Validate   *validator.Validate
}

func (c *CreditController) GetCredits(w http.ResponseWriter, r *http.Request) {
	balance, err := c.CreditRepo.GetBalance(middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credits": balance})
}

type updateCreditsRequest struct {
	Credits int    `json:"credits" validate:"min=0"`
	Action  string `json:"action" validate:"required,oneof=add set"`
}

// UpdateUserCredits grants or overwrites a user's balance. Admin only; the
// route is guarded by RequireAdmin.
func (c *CreditController) UpdateUserCredits(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || targetID < 1 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var body updateCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := c.Validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid credit update", "details": err.Error()})
		return
	}

	switch body.Action {
	case "add":
		err = c.CreditRepo.Add(targetID, body.Credits)
	case "set":
		err = c.CreditRepo.Set(targetID, body.Credits)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	balance, err := c.CreditRepo.GetBalance(targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user_id": targetID,
		"credits": balance,
	})
}
