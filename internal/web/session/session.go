package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/models"
)

const (
	// CookieName is the cookie holding the session id.
	CookieName = "session"

	// Expiration is how long a login session lives.
	Expiration = 24 * time.Hour
)

// ErrSessionNotFound is returned by Read if the session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Store is the global session store instance.
var Store *session.Store //nolint:gochecknoglobals

// Data represents the session data structure.
type Data struct {
	User models.User
}

// Write writes the session data for the given session ID with an expiration duration.
// The password hash is never stored in the session.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	data := *s
	data.User.Password = ""

	out, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	return Store.Storage.Set(sessionID, out, exp) //nolint:wrapcheck
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return errors.Wrap(err, "failed to read session")
	}

	if len(byteData) == 0 {
		return ErrSessionNotFound
	}

	return errors.Wrap(json.Unmarshal(byteData, s), "failed to decode session")
}

// Delete removes the session.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID) //nolint:wrapcheck
}

// Init initializes the session store with the provided storage backend.
// A nil storage keeps sessions in memory.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:    storage,
		Expiration: Expiration,
		KeyLookup:  "cookie:" + CookieName,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate session id")
	}

	return hex.EncodeToString(b), nil
}
