package fiber_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/GoChurchAdmin/GoChurchAdmin/internal/logger/adapter/fiber"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

const checkAlivePath = "/checkalive"

type mapStore map[string]string

func (s mapStore) Lookup(name string) (string, bool, error) {
	v, ok := s[name]
	return v, ok, nil
}

func (s mapStore) Put(name, value string) error {
	s[name] = value
	return nil
}

type accessEntry struct {
	Level    string `json:"level"`
	Category string `json:"category"`
	Status   int    `json:"status"`
	URI      string `json:"URI"`
	Method   string `json:"method"`
	Host     string `json:"host"`
}

// newWebLogger returns a manager with the given settings applied and its Web logger.
func newWebLogger(t *testing.T, s *logger.Settings) *logger.Manager {
	t.Helper()

	store := mapStore{}
	require.NoError(t, logger.SaveSettings(store, s))

	m := logger.NewManager(logger.Log{File: logger.LogFile{Path: t.TempDir()}}, store)
	require.NoError(t, m.ReloadConfiguration())

	t.Cleanup(func() { _ = m.Close() })

	return m
}

func accessEntries(t *testing.T, m *logger.Manager) []accessEntry {
	t.Helper()

	b, err := os.ReadFile(m.LogFilePath())
	if os.IsNotExist(err) {
		return nil
	}

	require.NoError(t, err)

	var out []accessEntry

	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		var e accessEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))

		out = append(out, e)
	}

	return out
}

func TestNew(t *testing.T) {
	local := func(level logger.Level, categories ...string) *logger.Settings {
		return &logger.Settings{
			Level:               level,
			Categories:          categories,
			LocalLoggingEnabled: true,
			MaxFileSizeBytes:    logger.MegabytesToBytes(1),
		}
	}

	tests := []struct {
		name     string
		settings *logger.Settings
		target   string
		want     *accessEntry
	}{
		{
			name:     "web category selected",
			settings: local(logger.LevelInformation, logger.CategoryWeb),
			target:   "/dashboard",
			want:     &accessEntry{Level: "info", Category: logger.CategoryWeb, Status: 200, URI: "/dashboard"},
		},
		{
			name:     "query string is kept",
			settings: local(logger.LevelDebug, logger.CategoryWeb),
			target:   "/giving?fund=missions&amount=25",
			want:     &accessEntry{Level: "info", Category: logger.CategoryWeb, Status: 200, URI: "/giving?fund=missions&amount=25"},
		},
		{
			name:     "unknown page logs its status",
			settings: local(logger.LevelTrace, logger.CategoryWeb),
			target:   "/admin/unknown",
			want:     &accessEntry{Level: "info", Category: logger.CategoryWeb, Status: 404, URI: "/admin/unknown"},
		},
		{
			name:     "web category not selected",
			settings: local(logger.LevelTrace, logger.CategoryAuth, logger.CategorySettings),
			target:   "/dashboard",
		},
		{
			name:     "verbosity above info",
			settings: local(logger.LevelWarning, logger.CategoryWeb),
			target:   "/dashboard",
		},
		{
			name:     "logging off",
			settings: local(logger.LevelNone, logger.CategoryWeb),
			target:   "/dashboard",
		},
		{
			name:     "check alive is skipped",
			settings: local(logger.LevelTrace, logger.CategoryWeb),
			target:   checkAlivePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newWebLogger(t, tt.settings)
			web := m.Logger(logger.CategoryWeb)

			app := fiber.New()
			app.Use(adapter.New(adapter.Config{
				Config:        logger.Log{DisableCheckAlive: true},
				Category:      &web,
				CheckAliveURI: checkAlivePath,
			}))

			ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
			app.Get("/dashboard", ok)
			app.Get("/giving", ok)
			app.Get(checkAlivePath, ok)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			entries := accessEntries(t, m)
			if tt.want == nil {
				assert.Empty(t, entries)
				return
			}

			require.Len(t, entries, 1)

			tt.want.Method = fiber.MethodGet
			tt.want.Host = "example.com"
			assert.Equal(t, *tt.want, entries[0])
		})
	}
}

func TestNewFollowsReload(t *testing.T) {
	store := mapStore{}
	require.NoError(t, logger.SaveSettings(store, &logger.Settings{Level: logger.LevelNone}))

	m := logger.NewManager(logger.Log{File: logger.LogFile{Path: t.TempDir()}}, store)
	require.NoError(t, m.ReloadConfiguration())

	t.Cleanup(func() { _ = m.Close() })

	web := m.Logger(logger.CategoryWeb)

	app := fiber.New()
	app.Use(adapter.New(adapter.Config{Category: &web}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?before=1", nil))
	require.NoError(t, err)
	assert.Empty(t, accessEntries(t, m))

	require.NoError(t, logger.SaveSettings(store, &logger.Settings{
		Level:               logger.LevelInformation,
		Categories:          []string{logger.CategoryWeb},
		LocalLoggingEnabled: true,
		MaxFileSizeBytes:    logger.MegabytesToBytes(1),
	}))
	require.NoError(t, m.ReloadConfiguration())

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?after=1", nil))
	require.NoError(t, err)

	entries := accessEntries(t, m)
	require.Len(t, entries, 1)
	assert.Equal(t, "/?after=1", entries[0].URI)
}

func TestNewWithoutLoggers(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Performance"))
}
