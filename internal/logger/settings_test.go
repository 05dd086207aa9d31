package logger_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

func TestLoadSettingsAbsent(t *testing.T) {
	assert.Nil(t, logger.LoadSettings(nil))
	assert.Nil(t, logger.LoadSettings(newMemStore()))

	store := newMemStore()
	store.err = errStoreDown
	assert.Nil(t, logger.LoadSettings(store))
}

func TestLoadSettingsCorrupt(t *testing.T) {
	store := newMemStore()
	store.values[logger.SettingKeyLogging] = "{not json"
	assert.Nil(t, logger.LoadSettings(store))

	store.values[logger.SettingKeyLogging] = `{"standardLogLevel":"Chatty"}`
	assert.Nil(t, logger.LoadSettings(store))
}

func TestSaveAndLoadSettings(t *testing.T) {
	store := newMemStore()

	in := &logger.Settings{
		Level:                       logger.LevelWarning,
		Categories:                  []string{"Auth", "Custom"},
		LocalLoggingEnabled:         true,
		ObservabilityLoggingEnabled: false,
		AdvancedConfiguration:       "{ compress: true }",
		MaxFileSizeBytes:            logger.MegabytesToBytes(5),
		RetainedFileCount:           3,
	}

	require.NoError(t, logger.SaveSettings(store, in))
	assert.Equal(t, 1, store.puts)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(store.values[logger.SettingKeyLogging]), &raw))
	assert.Equal(t, "Warning", raw["standardLogLevel"])
	assert.Equal(t, true, raw["isLocalLoggingEnabled"])
	assert.InDelta(t, float64(5*1024*1024), raw["maxFileSize"], 0)
	assert.InDelta(t, float64(3), raw["numberOfLogFiles"], 0)

	out := logger.LoadSettings(store)
	require.NotNil(t, out)
	assert.Equal(t, in, out)
	assert.True(t, out.HasCategory("Custom"))
	assert.False(t, out.HasCategory("Web"))
}

func TestSaveSettingsErrors(t *testing.T) {
	assert.ErrorIs(t, logger.SaveSettings(nil, &logger.Settings{}), logger.ErrStoreNil)

	store := newMemStore()
	store.err = errStoreDown
	assert.ErrorIs(t, logger.SaveSettings(store, &logger.Settings{}), errStoreDown)
}

func TestMaxFileSizeMB(t *testing.T) {
	tests := []struct {
		bytes int
		want  int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{1024 * 1024, 1},
		{1024*1024 + 1, 2},
		{logger.MegabytesToBytes(10), 10},
	}

	for _, tc := range tests {
		s := logger.Settings{MaxFileSizeBytes: tc.bytes}
		assert.Equal(t, tc.want, s.MaxFileSizeMB(), "bytes %d", tc.bytes)
	}
}
