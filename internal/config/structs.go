package config

import (
	"time"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/payment"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Payment   Payment
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CacheEnabled        bool    // true = enable cache, false = disable cache
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Argon2Salt          string  // salt for argon2 hashing
	Session             Session // session settings
}

// Payment configures the giving page and its payment widget.
// Unset widget toggles default to true.
type Payment struct {
	Provider        string // "stripe" or empty to disable online payments
	StripeSecretKey string
	Currency        string // ISO currency code, "usd" if empty
	SuccessURL      string
	CancelURL       string

	AllowACH              *bool `toml:",omitempty"`
	AllowCreditCard       *bool `toml:",omitempty"`
	CollectBillingAddress *bool `toml:",omitempty"`
}

// WidgetOptions builds the payment widget options from the config.
func (p Payment) WidgetOptions() payment.Options {
	var opts []payment.Option

	if p.AllowACH != nil {
		opts = append(opts, payment.WithACH(*p.AllowACH))
	}

	if p.AllowCreditCard != nil {
		opts = append(opts, payment.WithCreditCard(*p.AllowCreditCard))
	}

	if p.CollectBillingAddress != nil {
		opts = append(opts, payment.WithBillingAddressCollection(*p.CollectBillingAddress))
	}

	return payment.NewOptions(opts...)
}
