// internal/service/webhook_service.go
package service

import (
	"github.com/sirupsen/logrus"

	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/notify"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

// WebhookService records callee button presses reported by the telephony
// provider and fans them out to the owning users.
type WebhookService struct {
	ContactRepo  repository.ContactRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	WebhookRepo  repository.WebhookRepositoryInterface
	Notifier     notify.Notifier
}

// RecordButtonPress matches the phone number against campaign contacts,
// stores one response row per matched campaign, and notifies each campaign
// owner. Returns the names of the matched campaigns.
func (s *WebhookService) RecordButtonPress(phoneNumber, button string) ([]string, error) {
	matched, err := s.ContactRepo.ListByPhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		logrus.Infof("webhook: phone number %s not found in any campaign", phoneNumber)
		return []string{}, nil
	}

	seen := map[int]bool{}
	campaignNames := []string{}

	for _, contact := range matched {
		if seen[contact.CampaignID] {
			continue
		}
		seen[contact.CampaignID] = true

		campaign, err := s.CampaignRepo.GetByID(contact.CampaignID)
		if err != nil {
			logrus.Warnf("webhook: failed to load campaign %d: %v", contact.CampaignID, err)
			continue
		}

		resp := &model.WebhookResponse{
			PhoneNumber:   phoneNumber,
			ButtonPressed: button,
			CampaignID:    &campaign.ID,
			ContactID:     &contact.ID,
			ContactName:   contact.Name,
			ContactEmail:  contact.Email,
			CampaignName:  campaign.Name,
			UserID:        campaign.UserID,
		}
		if err := s.WebhookRepo.Create(resp); err != nil {
			logrus.Errorf("webhook: failed to store response for campaign %d: %v", campaign.ID, err)
			continue
		}

		campaignNames = append(campaignNames, campaign.Name)

		if s.Notifier != nil {
			s.Notifier.NotifyUser(campaign.UserID, "webhook_response", map[string]any{
				"phone_number":  phoneNumber,
				"campaign_name": campaign.Name,
				"timestamp":     resp.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}

	return campaignNames, nil
}

func (s *WebhookService) ListResponses(userID, limit int) ([]*model.WebhookResponse, error) {
	if limit < 1 {
		limit = 50
	}
	return s.WebhookRepo.ListByUser(userID, limit)
}

// DeleteResponse removes one of the user's own response rows.
func (s *WebhookService) DeleteResponse(id, userID int) error {
	resp, err := s.WebhookRepo.GetByID(id)
	if err != nil {
		return err
	}
	if resp == nil {
		return appErrors.NewValidation("response %d not found", id)
	}
	if resp.UserID != userID {
		return appErrors.NewForbidden("you can only delete your own response data")
	}

	deleted, err := s.WebhookRepo.DeleteByUser(id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return appErrors.NewValidation("response %d not found", id)
	}
	return nil
}
