package config

import (
	"errors"
)

// PaymentProviderStripe selects Stripe checkout for the giving page.
const PaymentProviderStripe = "stripe"

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownPaymentProvider error if payment.provider is not supported.
	ErrUnknownPaymentProvider = errors.New("toml config payment.provider is not supported")

	// ErrStripeSecretKeyEmpty error if stripe is selected without a secret key.
	ErrStripeSecretKeyEmpty = errors.New("toml config payment.stripeSecretKey can not be empty")
)
