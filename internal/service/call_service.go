// internal/service/call_service.go
package service

import (
	"context"

	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
	"github.com/voxblast/callcenter-backend/internal/gateway"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

// CallService places single ad-hoc calls outside any campaign.
type CallService struct {
	CallRepo   repository.CallRepositoryInterface
	CreditRepo repository.CreditRepositoryInterface
	StatusRepo repository.CampaignStatusRepositoryInterface
	Gateway    gateway.CallGateway
}

// MakeCall places one call for the user. Preconditions (credits, no active
// campaign) reject synchronously with no side effects. Past that point a
// gateway failure still records the attempt and still costs a credit; the
// failed call plus the error are both returned so the caller sees what
// happened.
func (s *CallService) MakeCall(ctx context.Context, userID int, callFrom, callTo, region string) (*model.Call, int, error) {
	balance, err := s.CreditRepo.GetBalance(userID)
	if err != nil {
		return nil, 0, err
	}
	if balance <= 0 {
		return nil, balance, appErrors.NewInsufficientCredits(1, balance)
	}

	status, err := s.StatusRepo.GetActive()
	if err != nil {
		return nil, 0, err
	}
	if status.ActiveCampaignID != nil {
		return nil, 0, appErrors.NewCampaignActive(*status.ActiveCampaignID, derefInt(status.ActiveUserID))
	}

	result, callErr := s.Gateway.PlaceCall(ctx, callFrom, callTo, region)

	call := &model.Call{
		CallFrom:    callFrom,
		CallTo:      callTo,
		Region:      region,
		UserID:      userID,
		CreditsCost: 1,
	}
	if callErr != nil {
		call.Status = model.CallStatusFailed
		call.ErrorMessage = callErr.Error()
	} else {
		call.Status = model.CallStatusCompleted
		call.CallID = result.CallID
	}

	if err := s.CallRepo.Create(call); err != nil {
		return nil, 0, err
	}

	// Credits pay for the attempt, success or not.
	if _, err := s.CreditRepo.Deduct(userID, 1); err != nil {
		return nil, 0, err
	}

	remaining, err := s.CreditRepo.GetBalance(userID)
	if err != nil {
		return nil, 0, err
	}

	return call, remaining, callErr
}

// History returns the user's call attempts, newest first.
func (s *CallService) History(userID, limit int) ([]*model.Call, error) {
	if limit < 1 {
		limit = 50
	}
	return s.CallRepo.ListByUser(userID, limit)
}

func (s *CallService) Stats() (map[string]int, error) {
	return s.CallRepo.Stats()
}
