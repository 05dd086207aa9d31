// Package payment holds the payment widget options used by the giving page
// and the checkout provider the widget hands payments to.
package payment

// Option configures Options.
type Option func(*Options)

// Options toggles the parts of the payment widget. Every combination is
// valid, including one with no payment method: callers decide how to present
// that. The zero value disables everything, use NewOptions for the defaults.
type Options struct {
	allowACH              bool
	allowCreditCard       bool
	collectBillingAddress bool
}

// InputGroup is a group of inputs the payment widget renders.
type InputGroup string

// Input groups in render order.
const (
	GroupCreditCard     InputGroup = "credit_card"
	GroupACH            InputGroup = "ach"
	GroupBillingAddress InputGroup = "billing_address"
)

// Stripe payment method types.
const (
	MethodCard          = "card"
	MethodUSBankAccount = "us_bank_account"
)

// NewOptions returns the options with everything enabled, then applies opts.
func NewOptions(opts ...Option) Options {
	o := Options{
		allowACH:              true,
		allowCreditCard:       true,
		collectBillingAddress: true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// DefaultOptions allows ACH and credit cards and collects the billing address.
func DefaultOptions() Options {
	return NewOptions()
}

// WithACH allows or forbids ACH bank transfers.
func WithACH(enabled bool) Option {
	return func(o *Options) {
		o.allowACH = enabled
	}
}

// WithCreditCard allows or forbids credit card payments.
func WithCreditCard(enabled bool) Option {
	return func(o *Options) {
		o.allowCreditCard = enabled
	}
}

// WithBillingAddressCollection lets the widget collect the billing address.
// When disabled the page embedding the widget collects it itself.
func WithBillingAddressCollection(enabled bool) Option {
	return func(o *Options) {
		o.collectBillingAddress = enabled
	}
}

// AllowACH reports whether ACH transfers are offered.
func (o Options) AllowACH() bool { return o.allowACH }

// AllowCreditCard reports whether credit cards are offered.
func (o Options) AllowCreditCard() bool { return o.allowCreditCard }

// CollectBillingAddress reports whether the widget collects the billing address.
func (o Options) CollectBillingAddress() bool { return o.collectBillingAddress }

// HasPaymentMethod reports whether at least one payment method is offered.
func (o Options) HasPaymentMethod() bool {
	return o.allowACH || o.allowCreditCard
}

// InputGroups lists the input groups the widget renders.
func (o Options) InputGroups() []InputGroup {
	groups := make([]InputGroup, 0, 3) //nolint:mnd

	if o.allowCreditCard {
		groups = append(groups, GroupCreditCard)
	}

	if o.allowACH {
		groups = append(groups, GroupACH)
	}

	if o.collectBillingAddress {
		groups = append(groups, GroupBillingAddress)
	}

	return groups
}

// PaymentMethodTypes maps the options to Stripe payment method types.
func (o Options) PaymentMethodTypes() []string {
	var types []string

	if o.allowCreditCard {
		types = append(types, MethodCard)
	}

	if o.allowACH {
		types = append(types, MethodUSBankAccount)
	}

	return types
}
