package payments

import "errors"

var (
	// ErrPaymentDeclined means the gateway processed the request and
	// rejected the payment method. Retryable with a different card.
	ErrPaymentDeclined = errors.New("payment declined by gateway")

	// ErrGatewayUnavailable means the charge never completed: network
	// failure, timeout, or a gateway-side error. Retryable as-is.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
