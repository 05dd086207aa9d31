package logger

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultCategoryLog = "category.log"

	// CategoryFieldName is the field holding the category of an entry.
	CategoryFieldName = "category"

	// lumberjack names backups <name>-<time><ext>, gzipped ones end in .gz.
	backupTimeFormat = "2006-01-02T15-04-05.000"
	compressSuffix   = ".gz"
)

// Manager is the runtime logging subsystem. Category loggers handed out by
// Logger keep working across reloads: they write through the manager, which
// swaps its sinks and filters when the stored settings change.
type Manager struct {
	cfg      Log
	store    SettingsStore
	registry *Registry

	mu         sync.RWMutex
	settings   Settings
	overrides  map[string]Level
	categories map[string]struct{}
	fields     map[string]string
	file       *lumberjack.Logger
	observer   *datadogSink
}

// NewManager creates a manager reading its settings from store. Nothing is
// logged until ReloadConfiguration was called.
func NewManager(cfg Log, store SettingsStore) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      store,
		registry:   NewRegistry(),
		overrides:  make(map[string]Level),
		categories: make(map[string]struct{}),
	}
}

// Logger returns a logger for category and registers the category as standard.
func (m *Manager) Logger(category string) zerolog.Logger {
	m.registry.Register(category)

	return zerolog.New(m).
		Hook(categoryHook{manager: m, category: category}).
		With().
		Timestamp().
		Str(CategoryFieldName, category).
		Logger()
}

// StandardCategories returns the category names known to this build.
func (m *Manager) StandardCategories() []string {
	return m.registry.Names()
}

// Settings returns a copy of the settings currently applied.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.settings
	s.Categories = append([]string(nil), m.settings.Categories...)

	return s
}

// LogFilePath is the local category log file.
func (m *Manager) LogFilePath() string {
	name := m.cfg.File.CategoryLog
	if name == "" {
		name = defaultCategoryLog
	}

	return path.Join(m.cfg.File.Path, name)
}

// ReloadConfiguration re-reads the stored settings and rebuilds the sinks.
// Missing or unreadable settings switch category logging off.
func (m *Manager) ReloadConfiguration() error {
	if m.store == nil {
		reloadsTotal.WithLabelValues("error").Inc()
		return ErrStoreNil
	}

	s := LoadSettings(m.store)
	if s == nil {
		s = &Settings{Level: LevelNone}
	}

	// stored text was validated on save, a bad value only drops the overrides.
	adv, err := ParseAdvanced(s.AdvancedConfiguration)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring advanced logging configuration")
	}

	var (
		file     *lumberjack.Logger
		observer *datadogSink
	)

	if s.LocalLoggingEnabled {
		if file, err = m.newFileSink(s, adv); err != nil {
			reloadsTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	if s.ObservabilityLoggingEnabled {
		if observer, err = newDataDogSink(m.cfg.DataDog, m.cfg.LogEnv); err != nil {
			log.Warn().Err(err).Msg("observability logging is enabled but can not be started")
		}
	}

	categories := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		categories[c] = struct{}{}
	}

	m.mu.Lock()
	oldFile, oldObserver := m.file, m.observer
	m.settings = *s
	m.overrides = adv.levelOverrides()
	m.categories = categories
	m.fields = adv.Fields
	m.file = file
	m.observer = observer
	m.mu.Unlock()

	closeSinks(oldFile, oldObserver)

	reloadsTotal.WithLabelValues("ok").Inc()

	log.Info().
		Str("verbosity", s.Level.String()).
		Strs("categories", s.Categories).
		Bool("local", s.LocalLoggingEnabled).
		Bool("observability", s.ObservabilityLoggingEnabled).
		Msg("logging configuration reloaded")

	return nil
}

// RecycleSink closes the active local file so it can be moved or removed.
// The file is reopened by the next write. Queued observability lines are flushed.
func (m *Manager) RecycleSink() error {
	m.flushObserver()

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeFileLocked()
}

// flushObserver waits for the observability sink without holding the lock,
// a flush can take as long as the datadog timeout.
func (m *Manager) flushObserver() {
	m.mu.RLock()
	observer := m.observer
	m.mu.RUnlock()

	if observer != nil {
		observer.Flush()
	}
}

func (m *Manager) closeFileLocked() error {
	sinkRecyclesTotal.Inc()

	if m.file == nil {
		return nil
	}

	return errors.Wrap(m.file.Close(), "failed to close category log file")
}

// DeleteLogFiles removes the local category log file and its rotated backups.
func (m *Manager) DeleteLogFiles() error {
	m.flushObserver()

	m.mu.Lock()
	defer m.mu.Unlock()

	// a concurrent writer must not reopen the file between close and remove.
	if err := m.closeFileLocked(); err != nil {
		return err
	}

	files, err := m.logFiles()
	if err != nil {
		return err
	}

	for _, f := range files {
		if err = os.Remove(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return errors.Wrapf(err, "failed to delete log file %s", f)
		}

		deletedFilesTotal.Inc()
		log.Info().Str("file", f).Msg("deleted category log file")
	}

	return nil
}

// logFiles lists the active file plus lumberjack backups (name-<time>.ext[.gz]).
func (m *Manager) logFiles() ([]string, error) {
	active := m.LogFilePath()
	ext := filepath.Ext(active)
	prefix := strings.TrimSuffix(active, ext) + "-"

	candidates, err := filepath.Glob(prefix + "*" + ext + "*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list rotated log files")
	}

	files := []string{active}

	for _, name := range candidates {
		if isBackup(name, prefix, ext) {
			files = append(files, name)
		}
	}

	return files, nil
}

// isBackup reports whether name is a lumberjack backup of prefix+ext, so
// files like category-audit.log next to it are left alone.
func isBackup(name, prefix, ext string) bool {
	stamp := strings.TrimSuffix(name, compressSuffix)
	if !strings.HasPrefix(stamp, prefix) || !strings.HasSuffix(stamp, ext) {
		return false
	}

	stamp = strings.TrimSuffix(strings.TrimPrefix(stamp, prefix), ext)

	_, err := time.Parse(backupTimeFormat, stamp)

	return err == nil
}

// Close stops all sinks.
func (m *Manager) Close() error {
	m.mu.Lock()
	file, observer := m.file, m.observer
	m.file, m.observer = nil, nil
	m.mu.Unlock()

	closeSinks(file, observer)

	return nil
}

// Write implements io.Writer for the category loggers.
func (m *Manager) Write(p []byte) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.file != nil {
		if _, err := m.file.Write(p); err != nil {
			ErrorHandler(err)
		}
	}

	if m.observer != nil {
		_, _ = m.observer.Write(p)
	}

	return len(p), nil
}

// enabled decides whether an event of category at lvl is written.
func (m *Manager) enabled(category string, lvl zerolog.Level) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.file == nil && m.observer == nil {
		return false
	}

	if _, ok := m.categories[category]; !ok {
		return false
	}

	verbosity := m.settings.Level
	if override, ok := m.overrides[category]; ok {
		verbosity = override
	}

	return verbosity.Allows(lvl)
}

func (m *Manager) extraFields() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.fields
}

func (m *Manager) newFileSink(s *Settings, adv AdvancedOptions) (*lumberjack.Logger, error) {
	if m.cfg.File.Path != "" {
		if err := os.MkdirAll(m.cfg.File.Path, 0o750); err != nil { //nolint: mnd
			return nil, errors.Wrapf(err, "can't create log directory %s", m.cfg.File.Path)
		}
	}

	maxSize := s.MaxFileSizeMB()
	if maxSize < 1 {
		maxSize = 1
	}

	return &lumberjack.Logger{
		Filename:   m.LogFilePath(),
		MaxSize:    maxSize,
		MaxBackups: s.RetainedFileCount,
		MaxAge:     adv.MaxAgeDays,
		LocalTime:  false,
		Compress:   adv.Compress,
	}, nil
}

func closeSinks(file *lumberjack.Logger, observer *datadogSink) {
	if file != nil {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close category log file")
		}
	}

	if observer != nil {
		_ = observer.Close()
	}
}

// categoryHook drops events the current settings filter out and adds the
// static fields from the advanced configuration.
type categoryHook struct {
	manager  *Manager
	category string
}

// Run implements zerolog.Hook.
func (h categoryHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	if !h.manager.enabled(h.category, level) {
		e.Discard()
		return
	}

	for k, v := range h.manager.extraFields() {
		e.Str(k, v)
	}
}
