package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

func TestCheckoutParams(t *testing.T) {
	req := CheckoutRequest{
		Amount:     2500,
		Currency:   "usd",
		Email:      "donor@example.com",
		SuccessURL: "https://example.com/ok",
		CancelURL:  "https://example.com/cancel",
		Metadata:   map[string]string{"fund": "general"},
	}

	params, err := CheckoutParams(DefaultOptions(), req)
	require.NoError(t, err)

	assert.Equal(t, []*string{stripe.String(MethodCard), stripe.String(MethodUSBankAccount)}, params.PaymentMethodTypes)
	assert.Equal(t, string(stripe.CheckoutSessionBillingAddressCollectionRequired), *params.BillingAddressCollection)
	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	assert.Equal(t, "donor@example.com", *params.CustomerEmail)
	assert.Equal(t, "general", params.PaymentIntentData.Metadata["fund"])
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(2500), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "Gift", *params.LineItems[0].PriceData.ProductData.Name)

	params, err = CheckoutParams(NewOptions(WithACH(false), WithBillingAddressCollection(false)), req)
	require.NoError(t, err)
	assert.Equal(t, []*string{stripe.String(MethodCard)}, params.PaymentMethodTypes)
	assert.Equal(t, string(stripe.CheckoutSessionBillingAddressCollectionAuto), *params.BillingAddressCollection)
}

func TestCheckoutParamsErrors(t *testing.T) {
	_, err := CheckoutParams(NewOptions(WithACH(false), WithCreditCard(false)), CheckoutRequest{Amount: 1})
	require.ErrorIs(t, err, ErrNoPaymentMethod)

	_, err = CheckoutParams(DefaultOptions(), CheckoutRequest{})
	require.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestStripeProviderCreateCheckout(t *testing.T) {
	_, err := NewStripeProvider("")
	require.ErrorIs(t, err, ErrSecretKeyEmpty)

	var got *stripe.CheckoutSessionParams

	p := &StripeProvider{newSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		got = params
		return &stripe.CheckoutSession{URL: "https://checkout.stripe.com/c/pay/cs_test"}, nil
	}}

	url, err := p.CreateCheckout(context.Background(), DefaultOptions(), CheckoutRequest{Amount: 100, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", url)
	require.NotNil(t, got)

	failing := &StripeProvider{newSession: func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("card declined") //nolint:goerr113
	}}

	_, err = failing.CreateCheckout(context.Background(), DefaultOptions(), CheckoutRequest{Amount: 100, Currency: "usd"})
	require.Error(t, err)
}
