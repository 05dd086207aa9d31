package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/dashboard"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/login"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/logout"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/session"
)

// LocalsCurrentUser is the fiber.Locals key of the signed in user.
const LocalsCurrentUser = "CurrentUser"

// publicPrefixes are served without a session.
var publicPrefixes = []string{"/static", "/metrics", "/checkalive"} //nolint:gochecknoglobals

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = IsLoginPage(c)
		sessDataValid bool
	)

	originalURL := strings.ToLower(c.OriginalURL())
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return c.Next()
		}
	}

	// Allow logout page without authentication
	if IsLogoutPage(c) {
		return c.Next()
	}

	loginCookie := c.Cookies(session.CookieName)

	// if no session cookie, redirect to login page
	if loginCookie == "" && !isLoginPage {
		return c.Redirect(login.Path)
	}

	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		// If we're already on the login page, don't redirect (would cause loop)
		if isLoginPage {
			return c.Next()
		}

		return c.Redirect(login.Path)
	}

	if sessData.User.ID > 0 {
		sessDataValid = true

		c.Locals(LocalsCurrentUser, sessData.User)
	}

	if sessDataValid && isLoginPage {
		return c.Redirect(dashboard.Path)
	}

	if !sessDataValid && !isLoginPage {
		return c.Redirect(login.Path)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsLogoutPage checks if the current request is for the logout page.
func IsLogoutPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, logout.Path)
}
