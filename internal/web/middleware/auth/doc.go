// Package auth guards every page behind a signed in session.
//
// Requests below /static, /metrics and /checkalive pass untouched, as does
// the logout page. Without a valid session the request is redirected to the
// login page; a signed in user opening the login page lands on the dashboard.
// The session user is stored in fiber.Locals under LocalsCurrentUser, which
// the base layout shows in the header.
//
//	app.Use(auth.Middleware)
package auth
