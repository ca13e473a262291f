package payments

import "errors"

var (
	// ErrNotFound means a referenced stage, bundle or purchase does not exist.
	ErrNotFound = errors.New("referenced item not found")
	// ErrInvalidInput means a checkout item carried an unknown type.
	ErrInvalidInput = errors.New("invalid item type (use 'stage' or 'bundle')")
	// ErrGatewayUnavailable means Mercado Pago is not configured or unreachable.
	// Callers degrade to the bank-transfer path instead of failing the request.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
