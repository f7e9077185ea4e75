package payments

import "context"

// ChargeRequest describes a single payment attempt. Amount is in minor
// currency units and is always computed server-side from the cart.
type ChargeRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Token       string `json:"token"`
	Description string `json:"description,omitempty"`
}

// ChargeResult is returned by the gateway on a successful charge.
type ChargeResult struct {
	TransactionID string `json:"transaction_id"`
}

// Gateway is the external payment processor. Charge returns
// ErrPaymentDeclined when the card is rejected and ErrGatewayUnavailable on
// transport failures or timeouts; callers must not retry a charge.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
