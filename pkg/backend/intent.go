package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// IntentRequest is the payload for the payment-intent function.
// Amount is in integer cents.
type IntentRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Plan     string `json:"plan"`
}

// Intent is the function's response: an opaque client-secret authorizing one
// payment attempt, plus the provider customer id when one was created.
type Intent struct {
	ClientSecret string  `json:"clientSecret"`
	CustomerID   *string `json:"customerId,omitempty"`
}

// CreatePaymentIntent calls the serverless payment-intent function.
// accessToken must be the user's bearer token; the anonymous key is not
// accepted by the function. Unlike the table facade, failures here surface
// the response body verbatim so provider-side function logs can be matched
// against what the user saw.
func (c *Client) CreatePaymentIntent(ctx context.Context, accessToken string, req IntentRequest) (*Intent, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: no access token")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: marshal body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/create-payment-intent", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug().Int("status", resp.StatusCode).Str("plan", req.Plan).Msg("payment intent rejected")
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: decode response: %w", err)
	}
	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("backend.CreatePaymentIntent: response missing clientSecret")
	}
	c.log.Info().Str("plan", req.Plan).Int("amount", req.Amount).Msg("payment intent created")
	return &intent, nil
}
