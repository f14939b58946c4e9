package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TopicCampaignRuns carries start-campaign jobs from the HTTP layer to the
// dispatcher.
const TopicCampaignRuns = "campaign_runs"

// CampaignRunJob is the payload of one campaign dispatch job.
type CampaignRunJob struct {
	CampaignID int `json:"campaign_id"`
	UserID     int `json:"user_id"`
}

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used for single-binary
// deployments where the dispatcher runs inside the API server.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		logrus.Warnf("job failed (attempt %d/%d): %+v, error: %v", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			logrus.Errorf("job permanently failed after %d attempts: %+v", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// CampaignRunner is what the subscriber needs from the dispatcher.
type CampaignRunner interface {
	Run(campaignID, userID int) error
}

// StartCampaignRunSubscriber wires the dispatcher to campaign run jobs.
func StartCampaignRunSubscriber(q Queue, runner CampaignRunner) {
	go func() {
		err := q.Subscribe(TopicCampaignRuns, func(payload any) error {
			job, ok := payload.(CampaignRunJob)
			if !ok {
				logrus.Warnf("⚠️ invalid campaign run payload: %+v", payload)
				return nil // drop, no retry
			}

			logrus.Infof("📩 processing queued campaign run: campaign %d, user %d", job.CampaignID, job.UserID)

			// The dispatcher carries its own error boundary: it marks the
			// campaign failed and releases the lock itself, so a returned
			// error here is terminal and must not requeue the run.
			if err := runner.Run(job.CampaignID, job.UserID); err != nil {
				logrus.Errorf("campaign %d run failed: %v", job.CampaignID, err)
			}
			return nil
		})

		if err != nil {
			logrus.Errorf("⚠️ failed to start subscriber for %s: %v", TopicCampaignRuns, err)
		}
	}()
}
