package queue

import (
	"testing"

	"github.com/streadway/amqp"
)

func TestNextAttempt(t *testing.T) {
	tests := []struct {
		name        string
		headers     amqp.Table
		wantAttempt int32
		wantRetry   bool
	}{
		{"no headers", nil, 1, true},
		{"mid retries", amqp.Table{"x-retry-count": int32(2)}, 3, true},
		{"cap reached", amqp.Table{"x-retry-count": int32(3)}, 4, false},
		{"malformed header counts as first", amqp.Table{"x-retry-count": "bogus"}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt, retry := nextAttempt(tt.headers)
			if attempt != tt.wantAttempt {
				t.Errorf("expected attempt %d, got %d", tt.wantAttempt, attempt)
			}
			if retry != tt.wantRetry {
				t.Errorf("expected retry=%v, got %v", tt.wantRetry, retry)
			}
		})
	}
}

func TestNextAttemptIncrementsAcrossRedeliveries(t *testing.T) {
	// Each republish stamps the attempt number back into the header, so the
	// counter must advance to the cap instead of looping forever.
	headers := amqp.Table{}
	deliveries := 0
	for {
		attempt, retry := nextAttempt(headers)
		if !retry {
			break
		}
		deliveries++
		if deliveries > maxDeliveryRetries {
			t.Fatalf("retry loop did not terminate after %d deliveries", deliveries)
		}
		headers["x-retry-count"] = attempt
	}
	if deliveries != maxDeliveryRetries {
		t.Errorf("expected %d retries before giving up, got %d", maxDeliveryRetries, deliveries)
	}
}
