// internal/gateway/apidaze.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CallResult is the positive outcome of a placed call.
type CallResult struct {
	CallID string
}

// CallGateway places one outbound call attempt against the telephony
// provider. Implementations must return an error for transport failures AND
// for provider-reported logical failures; the dispatcher treats both the
// same way.
type CallGateway interface {
	PlaceCall(ctx context.Context, from, to, region string) (*CallResult, error)
}

// ApidazeGateway talks to the Apidaze REST API.
type ApidazeGateway struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Client    *http.Client
}

func NewApidazeGateway(apiKey, apiSecret string) *ApidazeGateway {
	return &ApidazeGateway{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   "https://api.apidaze.io",
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type callRequest struct {
	Type     string `json:"type"`
	CallTo   string `json:"call_to"`
	CallFrom string `json:"call_from"`
	Region   string `json:"region"`
}

// callResponse covers the fields Apidaze may return. The HTTP status is 202
// for success and failure alike; only the body distinguishes them.
type callResponse struct {
	OK       bool   `json:"ok"`
	CallUUID string `json:"call_uuid"`
	ID       string `json:"id"`
	Failure  string `json:"failure"`
}

// PlaceCall posts the call and parses the ambiguous provider response into a
// definite outcome. A call counts as successful only when the body carries a
// positive indicator (ok flag or a call identifier) and no failure field.
func (g *ApidazeGateway) PlaceCall(ctx context.Context, from, to, region string) (*CallResult, error) {
	body, err := json.Marshal(callRequest{
		Type:     "number",
		CallTo:   to,
		CallFrom: from,
		Region:   region,
	})
	if err != nil {
		return nil, err
	}

	params := url.Values{"api_secret": {g.APISecret}}
	endpoint := fmt.Sprintf("%s/%s/calls?%s", g.BaseURL, g.APIKey, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("apidaze API error: %d - %s", resp.StatusCode, string(raw))
	}

	// Detect a failure field even if it carries an unexpected JSON type.
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("apidaze call failed: unparseable response: %s", string(raw))
	}

	var result callResponse
	// Already known to be valid JSON; field type mismatches are treated the
	// same as missing success indicators below.
	_ = json.Unmarshal(raw, &result)

	if _, hasFailure := generic["failure"]; hasFailure {
		reason := result.Failure
		if reason == "" {
			reason = "Unknown failure"
		}
		return nil, fmt.Errorf("apidaze call failed: %s", reason)
	}

	if !result.OK && result.CallUUID == "" && result.ID == "" {
		return nil, fmt.Errorf("apidaze call failed: no success indicators in response")
	}

	callID := result.CallUUID
	if callID == "" {
		callID = result.ID
	}
	if callID == "" {
		callID = "unknown"
	}
	return &CallResult{CallID: callID}, nil
}

var _ CallGateway = (*ApidazeGateway)(nil)
