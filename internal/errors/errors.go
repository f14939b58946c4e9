// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrValidation covers rejected campaign params and malformed contact data.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ErrValidation{Message: fmt.Sprintf(format, args...)}
}

// ErrInsufficientCredits signals a balance too low for the requested work.
// Required/Available are reported back to the caller.
type ErrInsufficientCredits struct {
	Required  int
	Available int
}

func (e *ErrInsufficientCredits) Error() string {
	if e.Required > 0 {
		return fmt.Sprintf("insufficient credits: campaign requires %d credits, but you have %d", e.Required, e.Available)
	}
	return "insufficient credits"
}

func NewInsufficientCredits(required, available int) error {
	return &ErrInsufficientCredits{Required: required, Available: available}
}

// ErrCampaignActive signals lock contention: another campaign holds the
// single system-wide dialing slot. The current holder is identified so the
// UI can show who is running.
type ErrCampaignActive struct {
	ActiveCampaignID int
	ActiveUserID     int
}

func (e *ErrCampaignActive) Error() string {
	return fmt.Sprintf("another bulk calling campaign is already active (campaign %d, user %d)", e.ActiveCampaignID, e.ActiveUserID)
}

func NewCampaignActive(campaignID, userID int) error {
	return &ErrCampaignActive{ActiveCampaignID: campaignID, ActiveUserID: userID}
}

// ErrForbidden signals an ownership or role failure.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

func NewForbidden(format string, args ...any) error {
	return &ErrForbidden{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidTransition signals a campaign operation against the wrong status,
// e.g. cancelling an already-cancelled campaign.
type ErrInvalidTransition struct {
	CampaignID int
	Status     string
	Operation  string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s campaign %d with status %s", e.Operation, e.CampaignID, e.Status)
}

func NewInvalidTransition(campaignID int, status, operation string) error {
	return &ErrInvalidTransition{CampaignID: campaignID, Status: status, Operation: operation}
}
