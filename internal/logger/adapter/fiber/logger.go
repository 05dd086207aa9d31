package fiber

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// Category receives every access entry at info level, usually the Web
	// category logger of the logging manager.
	//
	// Optional. Default: nil
	Category *zerolog.Logger

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Next == nil {
		cfg.Next = ConfigDefault.Next
	}

	return cfg
}

// New creates a new fiber access logging middleware using zerolog.
func New(config ...Config) fiber.Handler {
	var (
		cfg     = configDefault(config...)
		console *zerolog.Logger
	)

	// echo to console only if console logging is enabled in general.
	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		var l zerolog.Logger

		if cfg.Config.Console.UseConsoleWriter {
			l = zerolog.New(zerolog.ConsoleWriter{
				Out:          os.Stdout,
				NoColor:      false,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			l = zerolog.New(os.Stdout)
		}

		l = l.With().Timestamp().Logger().Level(zerolog.NoLevel)
		console = &l
	}

	return func(ctx *fiber.Ctx) (err error) {
		// Don't execute middleware if Next returns true
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		start := time.Now()
		// Handle request, store err for logging
		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := ctx.App().ErrorHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				// ensure also 500 has a Cache-Control
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		ctx.Locals("elapsed", elapsed)

		ctx.Response().Header.Set("X-Performance", fmt.Sprintf("%f", elapsed))

		// do not log checkalive URI
		if cfg.Config.DisableCheckAlive && bytes.Equal(ctx.Request().RequestURI(), []byte(cfg.CheckAliveURI)) {
			return nil
		}

		// fasthttp normalizes /2//test to /2/test, the log wants the path as sent.
		p := ctx.Path()
		if len(ctx.Queries()) > 0 {
			p = p + "?" + string(ctx.Request().URI().QueryString())
		}

		entry := func(e *zerolog.Event) {
			e.Str("IP", ctx.IP()).
				Int("status", ctx.Response().StatusCode()).
				Float64("X-Performance", elapsed).
				Str("URI", p).
				Str("method", ctx.Method()).
				Bytes("host", ctx.Request().Host()).
				Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
				Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
				Str(fiber.HeaderOrigin, ctx.Get(fiber.HeaderOrigin)).
				Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer)).
				Err(chainErr).
				Send()
		}

		if console != nil {
			entry(console.Log())
		}

		if cfg.Category != nil {
			entry(cfg.Category.Info())
		}

		return nil
	}
}
