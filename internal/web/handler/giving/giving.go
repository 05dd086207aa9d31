// Package giving provides the giving page: the payment widget and the
// hand-off to the hosted checkout of the payment provider.
package giving

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/payment"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/navigation"
)

const (
	// Path is the giving page.
	Path = handler.RootPath + "giving"

	// TemplateName is the giving template.
	TemplateName = "giving/payment"

	checkoutTimeout = 30 * time.Second

	// MsgNotConfigured is shown when no payment provider is configured.
	MsgNotConfigured = "Online giving is not available right now."
	// MsgNoPaymentMethod is shown when the configuration enables no payment method.
	MsgNoPaymentMethod = "No payment method is enabled for online giving."
	// MsgMethodNotAllowed is shown when the chosen payment method is switched off.
	MsgMethodNotAllowed = "The selected payment method is not available."
	// MsgCheckoutFailed is shown when the provider rejects the checkout.
	MsgCheckoutFailed = "The payment could not be started, please try again later."
)

// Address is the billing address block of the widget.
type Address struct {
	Name       string `form:"billing_name" validate:"required,max=200"`
	Line1      string `form:"billing_line1" validate:"required,max=200"`
	Line2      string `form:"billing_line2" validate:"max=200"`
	City       string `form:"billing_city" validate:"required,max=100"`
	PostalCode string `form:"billing_postal_code" validate:"required,max=20"`
	Country    string `form:"billing_country" validate:"required,len=2"`
}

// Form is the posted giving form.
type Form struct {
	Amount  string  `form:"amount" validate:"required,max=20"`
	Email   string  `form:"email" validate:"omitempty,email,max=255"`
	Fund    string  `form:"fund" validate:"max=100"`
	Method  string  `form:"method" validate:"omitempty,oneof=credit_card ach"`
	Address Address `validate:"-"`
}

// Service is the giving handler service.
type Service struct {
	cfg      config.Payment
	options  payment.Options
	provider payment.Provider
	log      zerolog.Logger
	validate *validator.Validate
}

// Handler is the giving handler.
var Handler = Service{}

// Init initializes the giving handler. provider may be nil if online payments are off.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	provider payment.Provider,
	logs *logger.Manager,
	authService *auth.Service,
) {
	if app == nil || cfg == nil || logs == nil || authService == nil {
		log.Fatal().Msg(handler.ErrMissingDependencyLogMsg)
		return
	}

	s.cfg = cfg.Payment
	s.options = cfg.Payment.WidgetOptions()
	s.provider = provider
	s.log = logs.Logger(logger.CategoryPayments)
	s.validate = validator.New()

	s.routes(app, auth.RequirePermission(authService, auth.PermGivingPayment))
}

func (s *Service) routes(app *fiber.App, admit fiber.Handler) {
	app.Get(Path, admit, s.Get)
	app.Post(Path, admit, s.Post)
}

// Get renders the payment widget.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, &Form{}, nil)
}

// Post validates the gift and redirects to the hosted checkout.
func (s *Service) Post(c *fiber.Ctx) error {
	if s.provider == nil {
		c.Status(fiber.StatusServiceUnavailable)
		return s.render(c, &Form{}, fiber.Map{"Error": MsgNotConfigured})
	}

	if !s.options.HasPaymentMethod() {
		c.Status(fiber.StatusServiceUnavailable)
		return s.render(c, &Form{}, fiber.Map{"Error": MsgNoPaymentMethod})
	}

	form := new(Form)
	if err := s.parse(c, form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, form, fiber.Map{"Error": "The submitted form could not be read."})
	}

	errs := s.check(form)

	amount, err := payment.ParseAmount(form.Amount)
	if err != nil && errs["Amount"] == "" {
		errs["Amount"] = capitalize(err.Error()) + "."
	}

	if len(errs) > 0 {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, form, fiber.Map{"Errors": errs})
	}

	opts, err := s.checkoutOptions(form.Method)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.render(c, form, fiber.Map{"Error": MsgMethodNotAllowed})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), checkoutTimeout)
	defer cancel()

	checkoutURL, err := s.provider.CreateCheckout(ctx, opts, s.checkoutRequest(form, amount))
	if err != nil {
		s.log.Error().Err(err).Int64("amount", amount).Str("currency", s.cfg.Currency).
			Msg("failed to create checkout")

		c.Status(fiber.StatusBadGateway)

		return s.render(c, form, fiber.Map{"Error": MsgCheckoutFailed})
	}

	s.log.Info().
		Int64("amount", amount).
		Str("currency", s.cfg.Currency).
		Str("fund", form.Fund).
		Strs("methods", opts.PaymentMethodTypes()).
		Msg("checkout created")

	return c.Redirect(checkoutURL, fiber.StatusSeeOther)
}

// parse reads the form; the address block is a separate struct with flat field names.
func (s *Service) parse(c *fiber.Ctx, form *Form) error {
	if err := c.BodyParser(form); err != nil {
		return err //nolint:wrapcheck
	}

	return c.BodyParser(&form.Address) //nolint:wrapcheck
}

// check validates the form; the address block only when the page collects it.
func (s *Service) check(form *Form) map[string]string {
	out := make(map[string]string)

	collect := func(err error) {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			if err != nil {
				out["Form"] = err.Error()
			}

			return
		}

		for _, fe := range verrs {
			out[fe.Field()] = fieldMessage(fe)
		}
	}

	collect(s.validate.Struct(form))

	if s.options.CollectBillingAddress() {
		collect(s.validate.Struct(&form.Address))
	}

	return out
}

// checkoutOptions narrows the configured options to the method the donor picked.
func (s *Service) checkoutOptions(method string) (payment.Options, error) {
	switch payment.InputGroup(method) {
	case payment.GroupCreditCard:
		if !s.options.AllowCreditCard() {
			return payment.Options{}, payment.ErrNoPaymentMethod
		}

		return payment.NewOptions(
			payment.WithACH(false),
			payment.WithBillingAddressCollection(s.options.CollectBillingAddress()),
		), nil
	case payment.GroupACH:
		if !s.options.AllowACH() {
			return payment.Options{}, payment.ErrNoPaymentMethod
		}

		return payment.NewOptions(
			payment.WithCreditCard(false),
			payment.WithBillingAddressCollection(s.options.CollectBillingAddress()),
		), nil
	default:
		return s.options, nil
	}
}

func (s *Service) checkoutRequest(form *Form, amount int64) payment.CheckoutRequest {
	req := payment.CheckoutRequest{
		Amount:     amount,
		Currency:   s.cfg.Currency,
		Email:      strings.TrimSpace(form.Email),
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
		Metadata:   map[string]string{},
	}

	if form.Fund != "" {
		req.Description = "Gift to " + form.Fund
		req.Metadata["fund"] = form.Fund
	}

	if s.options.CollectBillingAddress() {
		req.Metadata["billing_name"] = form.Address.Name
		req.Metadata["billing_postal_code"] = form.Address.PostalCode
		req.Metadata["billing_country"] = strings.ToUpper(form.Address.Country)
	}

	return req
}

func (s *Service) render(c *fiber.Ctx, form *Form, data fiber.Map) error {
	nav := navigation.NewContext("Giving", navigation.SectionGiving, "payment", handler.RootPath).
		Current("Giving", Path)

	out := fiber.Map{
		"Navigation":   nav,
		"Form":         form,
		"Groups":       s.options.InputGroups(),
		"Options":      s.options,
		"Currency":     strings.ToUpper(s.cfg.Currency),
		"Available":    s.provider != nil && s.options.HasPaymentMethod(),
		"GroupCard":    payment.GroupCreditCard,
		"GroupACH":     payment.GroupACH,
		"GroupAddress": payment.GroupBillingAddress,
	}

	switch {
	case s.provider == nil:
		out["Error"] = MsgNotConfigured
	case !s.options.HasPaymentMethod():
		out["Error"] = MsgNoPaymentMethod
	}

	for k, v := range data {
		out[k] = v
	}

	return c.Render(TemplateName, out, handler.BaseLayout)
}

var fieldLabels = map[string]string{ //nolint:gochecknoglobals
	"Amount":     "Amount",
	"Email":      "Email",
	"Fund":       "Fund",
	"Method":     "Payment method",
	"Name":       "Name",
	"Line1":      "Address",
	"Line2":      "Address line 2",
	"City":       "City",
	"PostalCode": "Postal code",
	"Country":    "Country",
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " is not a valid email address."
	case "len":
		return label + " must be a two letter code."
	case "oneof":
		return label + " is not available."
	default:
		return label + " is too long."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
