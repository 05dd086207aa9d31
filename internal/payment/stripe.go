package payment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// CheckoutRequest describes one gift to be paid through a hosted checkout.
type CheckoutRequest struct {
	Amount      int64 // minor units
	Currency    string
	Description string
	Email       string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Provider creates hosted checkout sessions.
type Provider interface {
	// CreateCheckout returns the URL the donor is redirected to.
	CreateCheckout(ctx context.Context, opts Options, req CheckoutRequest) (string, error)
}

// StripeProvider creates Stripe checkout sessions.
type StripeProvider struct {
	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeProvider sets the stripe api key and returns the provider.
func NewStripeProvider(secretKey string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, ErrSecretKeyEmpty
	}

	stripe.Key = secretKey

	return &StripeProvider{newSession: session.New}, nil
}

// CreateCheckout implements Provider.
func (p *StripeProvider) CreateCheckout(ctx context.Context, opts Options, req CheckoutRequest) (string, error) {
	params, err := CheckoutParams(opts, req)
	if err != nil {
		return "", err
	}

	if err = ctx.Err(); err != nil {
		return "", errors.Wrap(err, "creating checkout session")
	}

	s, err := p.newSession(params)
	if err != nil {
		return "", errors.Wrap(err, "creating checkout session")
	}

	return s.URL, nil
}

// CheckoutParams builds the stripe checkout session parameters for req,
// offering only the payment methods opts allow.
func CheckoutParams(opts Options, req CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	if !opts.HasPaymentMethod() {
		return nil, ErrNoPaymentMethod
	}

	if req.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	billing := stripe.CheckoutSessionBillingAddressCollectionAuto
	if opts.CollectBillingAddress() {
		billing = stripe.CheckoutSessionBillingAddressCollectionRequired
	}

	description := req.Description
	if description == "" {
		description = "Gift"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice(opts.PaymentMethodTypes()),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		BillingAddressCollection: stripe.String(string(billing)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	if len(req.Metadata) > 0 {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		}
	}

	return params, nil
}
