package queue_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voxblast/callcenter-backend/internal/queue"
)

func TestInMemoryQueueDelivers(t *testing.T) {
	q := queue.NewInMemoryQueue()
	received := make(chan any, 1)

	q.Subscribe("test_topic", func(payload any) error {
		received <- payload
		return nil
	})

	job := queue.CampaignRunJob{CampaignID: 1, UserID: 7}
	if err := q.Publish("test_topic", job); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got != any(job) {
			t.Errorf("expected %+v, got %+v", job, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never received the job")
	}
}

func TestInMemoryQueueRejectsUnknownTopic(t *testing.T) {
	q := queue.NewInMemoryQueue()
	if err := q.Publish("nobody_listens", "x"); err == nil {
		t.Fatal("expected error when no subscribers exist")
	}
}

func TestInMemoryQueueRetriesFailedJobs(t *testing.T) {
	q := queue.NewInMemoryQueue()
	var attempts int32
	done := make(chan struct{})

	q.Subscribe("retry_topic", func(payload any) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	if err := q.Publish("retry_topic", "job"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case <-done:
		if got := atomic.LoadInt32(&attempts); got != 3 {
			t.Errorf("expected 3 attempts, got %d", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("job was not retried to success")
	}
}

type recordingRunner struct {
	runs chan queue.CampaignRunJob
}

func (r *recordingRunner) Run(campaignID, userID int) error {
	r.runs <- queue.CampaignRunJob{CampaignID: campaignID, UserID: userID}
	return nil
}

func TestCampaignRunSubscriberRunsJob(t *testing.T) {
	q := queue.NewInMemoryQueue()
	runner := &recordingRunner{runs: make(chan queue.CampaignRunJob, 1)}
	queue.StartCampaignRunSubscriber(q, runner)

	// Subscription happens in a goroutine; retry the publish until it lands.
	job := queue.CampaignRunJob{CampaignID: 3, UserID: 9}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := q.Publish(queue.TopicCampaignRuns, job); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-runner.runs:
		if got != job {
			t.Errorf("expected %+v, got %+v", job, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner was never invoked")
	}
}

func TestCampaignRunSubscriberDropsInvalidPayload(t *testing.T) {
	q := queue.NewInMemoryQueue()
	runner := &recordingRunner{runs: make(chan queue.CampaignRunJob, 1)}
	queue.StartCampaignRunSubscriber(q, runner)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := q.Publish(queue.TopicCampaignRuns, "not a job"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-runner.runs:
		t.Errorf("runner must not run for invalid payloads, got %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}
