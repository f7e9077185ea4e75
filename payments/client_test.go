package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"transaction_id":"txn_42","status":"succeeded"}`))
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "test-key")
	result, err := g.Charge(context.Background(), ChargeRequest{Amount: 2200, Currency: "usd", Token: "tok_visa"})
	require.NoError(t, err)
	assert.Equal(t, "txn_42", result.TransactionID)
}

func TestChargeDeclinedByStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card declined", http.StatusPaymentRequired)
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "test-key")
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_bad"})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestChargeDeclinedByBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"declined","reason":"insufficient funds"}`))
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "test-key")
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_bad"})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestChargeGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "test-key")
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_visa"})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestChargeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "test-key")
	g.client.Timeout = 20 * time.Millisecond

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_visa"})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestChargeConnectionRefused(t *testing.T) {
	g := NewHTTPGateway("http://127.0.0.1:1", "test-key")
	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_visa"})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
