package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway charges cards through a JSON-over-HTTP payment provider.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client. baseURL example:
// - production: https://gateway.example.com
// - local: http://localhost:9000
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"` // "succeeded" or "declined"
	Reason        string `json:"reason,omitempty"`
}

// Charge submits one charge. It never retries: a second attempt on an
// ambiguous failure could double-bill the card.
func (g *HTTPGateway) Charge(ctx context.Context, reqBody ChargeRequest) (*ChargeResult, error) {
	if g.baseURL == "" {
		return nil, fmt.Errorf("gateway baseURL is empty")
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	res, err := g.client.Do(req)
	if err != nil {
		// Covers timeouts and connection failures. The charge state is
		// unknown, so the caller must treat this as retry-later.
		return nil, ErrGatewayUnavailable
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	switch {
	case res.StatusCode >= 500:
		return nil, ErrGatewayUnavailable
	case res.StatusCode == http.StatusPaymentRequired || res.StatusCode == http.StatusUnprocessableEntity:
		return nil, ErrPaymentDeclined
	case res.StatusCode >= 400:
		return nil, fmt.Errorf("charge rejected status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chargeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}
	if parsed.Status == "declined" {
		return nil, ErrPaymentDeclined
	}

	return &ChargeResult{TransactionID: parsed.TransactionID}, nil
}
