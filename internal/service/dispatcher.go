// internal/service/dispatcher.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/gateway"
	"github.com/voxblast/callcenter-backend/internal/model"
	"github.com/voxblast/callcenter-backend/internal/notify"
	"github.com/voxblast/callcenter-backend/internal/repository"
)

// Dispatcher drives one campaign from in-progress to a terminal status:
// batches the contact list, fans each batch out to concurrent call attempts,
// and settles every batch before touching the next.
type Dispatcher struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CallRepo     repository.CallRepositoryInterface
	CreditRepo   repository.CreditRepositoryInterface
	StatusRepo   repository.CampaignStatusRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	Gateway      gateway.CallGateway
	Notifier     notify.Notifier
}

// Run executes the campaign to completion, cancellation or credit
// exhaustion. The global campaign lock is released on every exit path,
// panics included; an unreleased lock would freeze all future campaigns.
func (d *Dispatcher) Run(campaignID, userID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("campaign %d dispatch panicked: %v", campaignID, r)
		}
		if err != nil {
			logrus.Errorf("campaign %d failed: %v", campaignID, err)
			if uerr := d.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusFailed); uerr != nil {
				logrus.Errorf("failed to mark campaign %d failed: %v", campaignID, uerr)
			}
		}
		if rerr := d.StatusRepo.Release(campaignID); rerr != nil {
			logrus.Errorf("failed to release campaign lock for %d: %v", campaignID, rerr)
		}
	}()

	campaign, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}

	settings, err := d.SettingsRepo.GetSystemSettings()
	if err != nil {
		return err
	}

	batchSize := settings.Concurrency
	if batchSize < 1 {
		batchSize = model.DefaultConcurrency
	}
	batchDelay := time.Duration(settings.DelayBetweenBatches) * time.Millisecond
	// TODO: delay_between_calls is stored and configurable but never applied
	// inside a batch; confirm the intended pacing before wiring it into the
	// fan-out, as it would change campaign throughput.

	allContacts, err := d.ContactRepo.ListByCampaign(campaignID)
	if err != nil {
		return err
	}

	batches := partitionContacts(allContacts, batchSize)
	logrus.Infof("campaign %d (%q): dispatching %d contacts in %d batch(es) of up to %d concurrent calls",
		campaignID, campaign.Name, len(allContacts), len(batches), batchSize)

	var completedCalls, failedCalls int

	for i, batch := range batches {
		// Cancellation is cooperative and polled here only: calls already
		// in flight within a batch are never interrupted.
		current, err := d.CampaignRepo.GetByID(campaignID)
		if err != nil {
			return err
		}
		if current.Status == model.CampaignStatusCancelled {
			logrus.Infof("campaign %d was cancelled, stopping before batch %d/%d", campaignID, i+1, len(batches))
			break
		}

		balance, err := d.CreditRepo.GetBalance(userID)
		if err != nil {
			return err
		}
		if balance <= 0 {
			logrus.Infof("user %d ran out of credits, stopping campaign %d before batch %d/%d", userID, campaignID, i+1, len(batches))
			break
		}

		batchCompleted, batchFailed := d.dispatchBatch(campaign, userID, batch)
		completedCalls += batchCompleted
		failedCalls += batchFailed

		if err := d.CampaignRepo.UpdateProgress(campaignID, completedCalls, failedCalls); err != nil {
			return err
		}

		logrus.Infof("campaign %d: batch %d/%d settled, total completed: %d, failed: %d",
			campaignID, i+1, len(batches), completedCalls, failedCalls)

		if i < len(batches)-1 {
			time.Sleep(batchDelay)
		}
	}

	final, err := d.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	finalStatus := model.CampaignStatusCompleted
	if final.Status == model.CampaignStatusCancelled {
		finalStatus = model.CampaignStatusCancelled
	}
	if err := d.CampaignRepo.Finish(campaignID, finalStatus, completedCalls, failedCalls); err != nil {
		return err
	}

	logrus.Infof("campaign %d (%q) %s: %d successful, %d failed", campaignID, campaign.Name, finalStatus, completedCalls, failedCalls)
	return nil
}

// dispatchBatch fires every contact of the batch concurrently and waits for
// all of them to settle, collecting successes and failures alike.
func (d *Dispatcher) dispatchBatch(campaign *model.Campaign, userID int, batch []*model.Contact) (completed, failed int) {
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, contact := range batch {
		wg.Add(1)
		go func(contact *model.Contact) {
			defer wg.Done()
			ok := d.attemptCall(campaign, userID, contact)

			mu.Lock()
			if ok {
				completed++
			} else {
				failed++
			}
			mu.Unlock()
		}(contact)
	}

	wg.Wait()
	return completed, failed
}

// attemptCall shields the batch from a panicking attempt. The recover must
// run on the worker goroutine itself: Run's recover cannot see a panic from
// here, and an escaped one kills the process with the lock still held.
func (d *Dispatcher) attemptCall(campaign *model.Campaign, userID int, contact *model.Contact) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("call attempt to %s panicked: %v", contact.Phone, r)
			ok = false
		}
	}()
	return d.placeCall(campaign, userID, contact)
}

// dial converts a panic inside call placement into an ordinary gateway
// error, so the attempt is still recorded and credited like any other
// failure.
func (d *Dispatcher) dial(campaign *model.Campaign, contact *model.Contact) (result *gateway.CallResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("call placement panicked: %v", r)
		}
	}()
	return d.Gateway.PlaceCall(context.Background(), campaign.CallFrom, contact.Phone, campaign.Region)
}

// placeCall performs one attempt. It never fails upward: gateway and
// transport errors become a failed call record, the credit is deducted
// either way (credits pay for the attempt, not the outcome), and the
// outcome is pushed to the user's notification stream best effort.
func (d *Dispatcher) placeCall(campaign *model.Campaign, userID int, contact *model.Contact) bool {
	result, callErr := d.dial(campaign, contact)

	call := &model.Call{
		CallFrom:    campaign.CallFrom,
		CallTo:      contact.Phone,
		Region:      campaign.Region,
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

	if err := d.CallRepo.Create(call); err != nil {
		logrus.Errorf("failed to record call attempt to %s: %v", contact.Phone, err)
	}

	if deducted, err := d.CreditRepo.Deduct(userID, 1); err != nil {
		logrus.Errorf("failed to deduct credit from user %d: %v", userID, err)
	} else if !deducted {
		logrus.Warnf("user %d has no credits left to cover call to %s", userID, contact.Phone)
	}

	if d.Notifier != nil {
		d.Notifier.NotifyUser(userID, "call_attempt", map[string]any{
			"phone_number":  contact.Phone,
			"campaign_name": campaign.Name,
			"status":        call.Status,
		})
	}

	return callErr == nil
}

// partitionContacts splits the ordered contact list into consecutive batches
// of at most batchSize, preserving order across batches.
func partitionContacts(contacts []*model.Contact, batchSize int) [][]*model.Contact {
	batches := [][]*model.Contact{}
	for i := 0; i < len(contacts); i += batchSize {
		end := i + batchSize
		if end > len(contacts) {
			end = len(contacts)
		}
		batches = append(batches, contacts[i:end])
	}
	return batches
}
