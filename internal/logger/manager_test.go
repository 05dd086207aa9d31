package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

func newTestManager(t *testing.T, s *logger.Settings) (*logger.Manager, *memStore) {
	t.Helper()

	store := newMemStore()
	if s != nil {
		require.NoError(t, logger.SaveSettings(store, s))
	}

	m := logger.NewManager(logger.Log{
		File: logger.LogFile{Path: t.TempDir(), CategoryLog: "category.log"},
	}, store)

	t.Cleanup(func() { _ = m.Close() })

	return m, store
}

func readFile(t *testing.T, name string) string {
	t.Helper()

	b, err := os.ReadFile(name)
	require.NoError(t, err)

	return string(b)
}

func localSettings(level logger.Level, categories ...string) *logger.Settings {
	return &logger.Settings{
		Level:               level,
		Categories:          categories,
		LocalLoggingEnabled: true,
		MaxFileSizeBytes:    logger.MegabytesToBytes(1),
		RetainedFileCount:   2,
	}
}

func TestManagerReloadWithoutStore(t *testing.T) {
	m := logger.NewManager(logger.Log{}, nil)
	assert.ErrorIs(t, m.ReloadConfiguration(), logger.ErrStoreNil)
}

func TestManagerNotConfigured(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.ReloadConfiguration())

	l := m.Logger(logger.CategoryAuth)
	l.Error().Msg("nobody listens")

	assert.Equal(t, logger.LevelNone, m.Settings().Level)
	assert.NoFileExists(t, m.LogFilePath())

	entries, err := os.ReadDir(filepath.Dir(m.LogFilePath()))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManagerFiltersByLevelAndCategory(t *testing.T) {
	m, _ := newTestManager(t, localSettings(logger.LevelInformation, logger.CategoryAuth))
	require.NoError(t, m.ReloadConfiguration())

	auth := m.Logger(logger.CategoryAuth)
	web := m.Logger(logger.CategoryWeb)

	auth.Info().Msg("auth info")
	auth.Debug().Msg("auth debug")
	web.Error().Msg("web error")

	out := readFile(t, m.LogFilePath())
	assert.Contains(t, out, "auth info")
	assert.Contains(t, out, `"category":"Auth"`)
	assert.NotContains(t, out, "auth debug")
	assert.NotContains(t, out, "web error")
}

func TestManagerAdvancedOverrides(t *testing.T) {
	s := localSettings(logger.LevelError, logger.CategoryAuth, logger.CategoryWeb)
	s.AdvancedConfiguration = `{
  categoryLevels: { Auth: "Debug" }
  fields: { site: "main" }
}`

	m, _ := newTestManager(t, s)
	require.NoError(t, m.ReloadConfiguration())

	auth := m.Logger(logger.CategoryAuth)
	web := m.Logger(logger.CategoryWeb)

	auth.Debug().Msg("auth debug")
	web.Info().Msg("web info")
	web.Error().Msg("web error")

	out := readFile(t, m.LogFilePath())
	assert.Contains(t, out, "auth debug")
	assert.Contains(t, out, `"site":"main"`)
	assert.Contains(t, out, "web error")
	assert.NotContains(t, out, "web info")
}

func TestManagerIgnoresReservedAdvancedFields(t *testing.T) {
	s := localSettings(logger.LevelInformation, logger.CategoryWeb)
	s.AdvancedConfiguration = `{ fields: { category: "Spoofed", level: "debug" } }`

	m, _ := newTestManager(t, s)
	require.NoError(t, m.ReloadConfiguration())

	web := m.Logger(logger.CategoryWeb)
	web.Warn().Msg("request failed")

	out := readFile(t, m.LogFilePath())
	assert.Contains(t, out, "request failed")
	assert.NotContains(t, out, "Spoofed")
	assert.Equal(t, 1, strings.Count(out, `"category":`))
	assert.Equal(t, 1, strings.Count(out, `"level":`))
}

func TestManagerReloadAppliesToExistingLoggers(t *testing.T) {
	m, store := newTestManager(t, localSettings(logger.LevelError, logger.CategoryAuth))
	require.NoError(t, m.ReloadConfiguration())

	auth := m.Logger(logger.CategoryAuth)
	auth.Info().Msg("before reload")

	require.NoError(t, logger.SaveSettings(store, localSettings(logger.LevelTrace, logger.CategoryAuth)))
	require.NoError(t, m.ReloadConfiguration())

	auth.Info().Msg("after reload")

	out := readFile(t, m.LogFilePath())
	assert.NotContains(t, out, "before reload")
	assert.Contains(t, out, "after reload")
	assert.Equal(t, logger.LevelTrace, m.Settings().Level)
}

func TestManagerLocalDisabled(t *testing.T) {
	s := localSettings(logger.LevelTrace, logger.CategoryAuth)
	s.LocalLoggingEnabled = false

	m, _ := newTestManager(t, s)
	require.NoError(t, m.ReloadConfiguration())

	auth := m.Logger(logger.CategoryAuth)
	auth.Error().Msg("dropped")

	assert.NoFileExists(t, m.LogFilePath())
}

func TestManagerObservabilityWithoutKey(t *testing.T) {
	s := localSettings(logger.LevelInformation, logger.CategoryAuth)
	s.ObservabilityLoggingEnabled = true

	m, _ := newTestManager(t, s)
	require.NoError(t, m.ReloadConfiguration())

	auth := m.Logger(logger.CategoryAuth)
	auth.Info().Msg("still local")

	assert.Contains(t, readFile(t, m.LogFilePath()), "still local")
}

func TestManagerDeleteLogFiles(t *testing.T) {
	m, _ := newTestManager(t, localSettings(logger.LevelInformation, logger.CategoryApp))
	require.NoError(t, m.ReloadConfiguration())

	app := m.Logger(logger.CategoryApp)
	app.Info().Msg("first")

	dir := filepath.Dir(m.LogFilePath())
	backups := []string{
		filepath.Join(dir, "category-2024-01-01T00-00-00.000.log.gz"),
		filepath.Join(dir, "category-2024-01-02T10-30-00.250.log"),
	}
	unrelated := []string{
		filepath.Join(dir, "other.log"),
		filepath.Join(dir, "category-audit.log"),
	}

	for _, f := range append(append([]string(nil), backups...), unrelated...) {
		require.NoError(t, os.WriteFile(f, []byte("old"), 0o600))
	}

	require.NoError(t, m.RecycleSink())
	require.NoError(t, m.DeleteLogFiles())

	assert.NoFileExists(t, m.LogFilePath())

	for _, f := range backups {
		assert.NoFileExists(t, f)
	}

	for _, f := range unrelated {
		assert.FileExists(t, f)
	}

	// the sink reopens the file on the next write.
	app.Info().Msg("second")

	out := readFile(t, m.LogFilePath())
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first")

	// nothing left to delete is fine.
	require.NoError(t, m.DeleteLogFiles())
	require.NoError(t, m.DeleteLogFiles())
}

func TestManagerStandardCategories(t *testing.T) {
	m, _ := newTestManager(t, nil)
	_ = m.Logger("Reports")

	assert.Contains(t, m.StandardCategories(), "Reports")
	assert.Contains(t, m.StandardCategories(), logger.CategoryPayments)
}
