package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

func TestParseLevel(t *testing.T) {
	for _, l := range logger.Levels() {
		parsed, err := logger.ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	parsed, err := logger.ParseLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, parsed)

	_, err = logger.ParseLevel("Verbose")
	assert.ErrorIs(t, err, logger.ErrUnknownLevel)
}

func TestLevelNames(t *testing.T) {
	assert.Equal(t,
		[]string{"None", "Critical", "Error", "Warning", "Information", "Debug", "Trace"},
		logger.LevelNames(),
	)
}

func TestLevelAllows(t *testing.T) {
	tests := []struct {
		level logger.Level
		event zerolog.Level
		want  bool
	}{
		{logger.LevelNone, zerolog.FatalLevel, false},
		{logger.LevelNone, zerolog.NoLevel, false},
		{logger.LevelCritical, zerolog.FatalLevel, true},
		{logger.LevelCritical, zerolog.ErrorLevel, false},
		{logger.LevelError, zerolog.ErrorLevel, true},
		{logger.LevelError, zerolog.WarnLevel, false},
		{logger.LevelWarning, zerolog.WarnLevel, true},
		{logger.LevelInformation, zerolog.InfoLevel, true},
		{logger.LevelInformation, zerolog.DebugLevel, false},
		{logger.LevelDebug, zerolog.DebugLevel, true},
		{logger.LevelDebug, zerolog.TraceLevel, false},
		{logger.LevelTrace, zerolog.TraceLevel, true},
		{logger.LevelTrace, zerolog.Disabled, false},
		{logger.LevelWarning, zerolog.NoLevel, true},
	}

	for _, tc := range tests {
		t.Run(tc.level.String()+"/"+tc.event.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.level.Allows(tc.event))
		})
	}
}

func TestLevelText(t *testing.T) {
	b, err := logger.LevelWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Warning", string(b))

	var l logger.Level
	require.NoError(t, l.UnmarshalText([]byte("trace")))
	assert.Equal(t, logger.LevelTrace, l)

	_, err = logger.Level(42).MarshalText()
	assert.ErrorIs(t, err, logger.ErrUnknownLevel)
	assert.Equal(t, "Level(42)", logger.Level(42).String())
}
