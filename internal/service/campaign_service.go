// internal/service/campaign_service.go
package service

import (
	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/contacts"
	appErrors "github.com/voxblast/callcenter-backend/internal/errors"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/queue"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

// MaxCampaignContacts is the hard per-campaign cap applied at creation.
const MaxCampaignContacts = 200

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CreditRepo   repository.CreditRepositoryInterface
	StatusRepo   repository.CampaignStatusRepositoryInterface
	Queue        queue.Queue
}

// CreateCampaignResult reports what creation actually kept: contacts beyond
// the user's balance are silently dropped and surface here as excluded.
type CreateCampaignResult struct {
	Campaign         *model.Campaign `json:"bulk_call"`
	ContactsCreated  int             `json:"contacts_created"`
	ContactsExcluded int             `json:"contacts_excluded"`
	UserCredits      int             `json:"user_credits"`
}

// Create parses the raw contact data and persists the campaign in pending
// state. Rejections (no valid contacts, over the 200 cap, zero balance,
// another campaign active) create nothing.
func (s *CampaignService) Create(userID int, name, callFrom, region, rawContacts string) (*CreateCampaignResult, error) {
	parsed := contacts.Parse(rawContacts)
	if len(parsed) == 0 {
		return nil, appErrors.NewValidation("no valid contacts found in the provided data")
	}
	if len(parsed) > MaxCampaignContacts {
		return nil, appErrors.NewValidation("campaign cannot exceed %d contacts, you provided %d contacts", MaxCampaignContacts, len(parsed))
	}

	status, err := s.StatusRepo.GetActive()
	if err != nil {
		return nil, err
	}
	if status.ActiveCampaignID != nil {
		return nil, appErrors.NewCampaignActive(*status.ActiveCampaignID, derefInt(status.ActiveUserID))
	}

	balance, err := s.CreditRepo.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, appErrors.NewInsufficientCredits(0, balance)
	}

	// Creation-time credit cap: keep only as many contacts as the balance
	// covers right now.
	toProcess := parsed
	if len(parsed) > balance {
		toProcess = parsed[:balance]
	}

	campaign := &model.Campaign{
		Name:          name,
		UserID:        userID,
		Status:        model.CampaignStatusPending,
		CallFrom:      callFrom,
		Region:        region,
		TotalContacts: len(toProcess),
		MaxContacts:   min(MaxCampaignContacts, len(toProcess)),
	}
	if err := s.CampaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	rows := make([]*model.Contact, len(toProcess))
	for i, p := range toProcess {
		rows[i] = &model.Contact{
			Name:          p.Name,
			Email:         p.Email,
			Phone:         p.Phone,
			OriginalPhone: p.OriginalPhone,
			CampaignID:    campaign.ID,
		}
	}
	if err := s.ContactRepo.CreateBatch(rows); err != nil {
		return nil, err
	}

	return &CreateCampaignResult{
		Campaign:         campaign,
		ContactsCreated:  len(toProcess),
		ContactsExcluded: len(parsed) - len(toProcess),
		UserCredits:      balance,
	}, nil
}

// Start acquires the global campaign lock and hands the campaign to the
// dispatcher via the job queue, returning the updated snapshot immediately.
// Every path that acquires the lock either enqueues the run (whose
// dispatcher guarantees release) or releases it before returning.
func (s *CampaignService) Start(campaignID, userID int) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.UserID != userID {
		return nil, appErrors.NewForbidden("you can only start your own campaigns")
	}
	if campaign.Status != model.CampaignStatusPending {
		return nil, appErrors.NewInvalidTransition(campaignID, campaign.Status, "start")
	}

	// Starting demands full coverage up front, a stronger check than the
	// creation-time cap: the balance may have been spent since creation.
	balance, err := s.CreditRepo.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	if balance < campaign.TotalContacts {
		return nil, appErrors.NewInsufficientCredits(campaign.TotalContacts, balance)
	}

	acquired, err := s.StatusRepo.Acquire(campaignID, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		current, serr := s.StatusRepo.GetActive()
		if serr != nil || current.ActiveCampaignID == nil {
			return nil, appErrors.NewCampaignActive(0, 0)
		}
		return nil, appErrors.NewCampaignActive(*current.ActiveCampaignID, derefInt(current.ActiveUserID))
	}

	if err := s.StatusRepo.SetXMLLocked(true); err != nil {
		_ = s.StatusRepo.Release(campaignID)
		return nil, err
	}

	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusInProgress); err != nil {
		_ = s.StatusRepo.Release(campaignID)
		return nil, err
	}

	job := queue.CampaignRunJob{CampaignID: campaignID, UserID: userID}
	if err := s.Queue.Publish(queue.TopicCampaignRuns, job); err != nil {
		// Undo so the lock cannot starve behind a job that never ran.
		_ = s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusPending)
		_ = s.StatusRepo.Release(campaignID)
		return nil, err
	}

	logrus.Infof("campaign %d started by user %d", campaignID, userID)
	return s.CampaignRepo.GetByID(campaignID)
}

// Cancel flips an in-progress campaign to cancelled and releases the lock
// synchronously when this campaign holds it. The dispatcher polls the status
// at the next batch boundary and stops; its own release is then a no-op.
// Cancelling a campaign that is not in progress is an error, not a second
// transition.
func (s *CampaignService) Cancel(campaignID, userID int) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.UserID != userID {
		return nil, appErrors.NewForbidden("you can only cancel your own campaigns")
	}
	if campaign.Status != model.CampaignStatusInProgress {
		return nil, appErrors.NewInvalidTransition(campaignID, campaign.Status, "cancel")
	}

	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCancelled); err != nil {
		return nil, err
	}

	if err := s.StatusRepo.Release(campaignID); err != nil {
		logrus.Errorf("failed to release lock while cancelling campaign %d: %v", campaignID, err)
	}

	logrus.Infof("campaign %d cancelled by user %d", campaignID, userID)
	return s.CampaignRepo.GetByID(campaignID)
}

// List returns the user's campaigns, newest first.
func (s *CampaignService) List(userID, limit int) ([]*model.Campaign, error) {
	if limit < 1 {
		limit = 50
	}
	return s.CampaignRepo.ListByUser(userID, limit)
}

func (s *CampaignService) Get(campaignID int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(campaignID)
}

// ActiveStatus exposes the lock holder for UI gating.
func (s *CampaignService) ActiveStatus() (*model.CampaignStatus, error) {
	return s.StatusRepo.GetActive()
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
