package payment

import "errors"

var (
	ErrNotFound         = errors.New("booking not found for order")
	ErrInvalidState     = errors.New("booking is not awaiting payment")
	ErrGateway          = errors.New("gateway create-payment request failed")
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrAmountMismatch   = errors.New("callback amount does not match session")
)
