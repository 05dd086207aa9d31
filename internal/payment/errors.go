package payment

import "errors"

var (
	// ErrAmountEmpty is returned if no amount was entered.
	ErrAmountEmpty = errors.New("amount is required")

	// ErrAmountInvalid is returned if the amount is not a number.
	ErrAmountInvalid = errors.New("amount is not a valid number")

	// ErrAmountNotPositive is returned for zero or negative amounts.
	ErrAmountNotPositive = errors.New("amount must be greater than zero")

	// ErrAmountPrecision is returned for amounts with more than two decimal places.
	ErrAmountPrecision = errors.New("amount can have at most two decimal places")

	// ErrNoPaymentMethod is returned if the options allow neither ACH nor cards.
	ErrNoPaymentMethod = errors.New("no payment method is enabled")

	// ErrSecretKeyEmpty is returned if the stripe provider has no secret key.
	ErrSecretKeyEmpty = errors.New("stripe secret key can not be empty")
)
