package logging

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

// recordingViews remembers the last render call.
type recordingViews struct {
	mu     sync.Mutex
	name   string
	data   fiber.Map
	layout []string
}

func (v *recordingViews) Load() error { return nil }

func (v *recordingViews) Render(w io.Writer, name string, data interface{}, layout ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	v.data, _ = data.(fiber.Map)
	v.layout = layout

	_, _ = io.WriteString(w, name)

	return nil
}

func (v *recordingViews) last() fiber.Map {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.data
}

var errBroken = errors.New("broken")

type memStore struct {
	values map[string]string
	puts   int
	putErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Lookup(name string) (string, bool, error) {
	v, ok := m.values[name]
	return v, ok, nil
}

func (m *memStore) Put(name, value string) error {
	if m.putErr != nil {
		return m.putErr
	}

	m.puts++
	m.values[name] = value

	return nil
}

type stubLogSystem struct {
	standard   []string
	reloads    int
	recycles   int
	deletes    int
	calls      []string
	reloadErr  error
	recycleErr error
	deleteErr  error
}

func (s *stubLogSystem) ReloadConfiguration() error {
	s.reloads++
	s.calls = append(s.calls, "reload")

	return s.reloadErr
}

func (s *stubLogSystem) RecycleSink() error {
	s.recycles++
	s.calls = append(s.calls, "recycle")

	return s.recycleErr
}

func (s *stubLogSystem) DeleteLogFiles() error {
	s.deletes++
	s.calls = append(s.calls, "delete")

	return s.deleteErr
}

func (s *stubLogSystem) StandardCategories() []string { return s.standard }

type fixture struct {
	app   *fiber.App
	views *recordingViews
	store *memStore
	logs  *stubLogSystem
}

func newFixture(t *testing.T, canEdit bool) *fixture {
	t.Helper()

	v, err := newValidator()
	require.NoError(t, err)

	f := &fixture{
		views: &recordingViews{},
		store: newMemStore(),
		logs:  &stubLogSystem{standard: []string{"App", "Auth", "Web"}},
	}

	s := &Service{
		store:    f.store,
		logs:     f.logs,
		log:      zerolog.Nop(),
		validate: v,
		authorize: func(_ *fiber.Ctx, permission string) bool {
			return permission == auth.PermAdminLoggingEdit && canEdit
		},
	}

	f.app = fiber.New(fiber.Config{Views: f.views})
	s.routes(f.app, func(c *fiber.Ctx) error { return c.Next() })

	return f
}

func (f *fixture) seed(t *testing.T, s *logger.Settings) {
	t.Helper()

	require.NoError(t, logger.SaveSettings(f.store, s))

	f.store.puts = 0
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func validForm() url.Values {
	return url.Values{
		"level":                  {"Warning"},
		"categories":             {"Web", "Auth", "Legacy"},
		"local_enabled":          {"true"},
		"observability_enabled":  {"true"},
		"advanced_configuration": {`{ compress: true }`},
		"max_file_size_mb":       {"5"},
		"retained_file_count":    {"3"},
	}
}

func TestGetWithoutSettingsIsBlank(t *testing.T) {
	f := newFixture(t, true)

	resp := f.do(t, http.MethodGet, Path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := f.views.last()
	assert.Equal(t, ModeReadOnly, data["Mode"])
	assert.Equal(t, View{}, data["Settings"])
	assert.Equal(t, true, data["CanEdit"])
	assert.Equal(t, TemplateName, f.views.name)
}

func TestGetWithCorruptSettingsIsBlank(t *testing.T) {
	f := newFixture(t, true)
	f.store.values[logger.SettingKeyLogging] = "{not json"

	resp := f.do(t, http.MethodGet, Path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, View{}, f.views.last()["Settings"])

	f.do(t, http.MethodGet, Path+"/edit", nil)

	form, ok := f.views.last()["Form"].(*Form)
	require.True(t, ok)
	assert.Empty(t, form.Level)
}

func TestGetShowsStoredSettings(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, &logger.Settings{
		Level:               logger.LevelDebug,
		Categories:          []string{"Web"},
		LocalLoggingEnabled: true,
		MaxFileSizeBytes:    logger.MegabytesToBytes(2),
		RetainedFileCount:   4,
	})

	f.do(t, http.MethodGet, Path, nil)

	data := f.views.last()
	assert.Equal(t, View{
		Configured:        true,
		Level:             "Debug",
		Categories:        []string{"Web"},
		LocalEnabled:      true,
		MaxFileSizeMB:     2,
		RetainedFileCount: 4,
	}, data["Settings"])
	assert.Equal(t, false, data["CanEdit"])
}

func TestEditWithoutSettingsListsStandardCategories(t *testing.T) {
	f := newFixture(t, true)

	resp := f.do(t, http.MethodGet, Path+"/edit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := f.views.last()
	assert.Equal(t, ModeEditing, data["Mode"])

	form, ok := data["Form"].(*Form)
	require.True(t, ok)
	assert.Empty(t, form.Level)

	assert.Equal(t, []CategoryOption{
		{Name: "App"},
		{Name: "Auth"},
		{Name: "Web"},
	}, data["Categories"])
}

func TestEditKeepsLegacyCategories(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, &logger.Settings{
		Level:      logger.LevelError,
		Categories: []string{"Web", "Billing"},
	})

	f.do(t, http.MethodGet, Path+"/edit", nil)

	data := f.views.last()
	assert.Equal(t, []CategoryOption{
		{Name: "App"},
		{Name: "Auth"},
		{Name: "Web", Selected: true},
		{Name: "Billing", Selected: true, Legacy: true},
	}, data["Categories"])

	form := data["Form"].(*Form)
	assert.Equal(t, "Error", form.Level)
}

func TestSaveInvalidKeepsStoredSettings(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(url.Values)
		field string
	}{
		{"missing level", func(v url.Values) { v.Del("level") }, "Level"},
		{"unknown level", func(v url.Values) { v.Set("level", "Loud") }, "Level"},
		{"bad advanced text", func(v url.Values) { v.Set("advanced_configuration", `{ categoryLevels: { Web: "Loud" } }`) }, "AdvancedConfiguration"},
		{"missing size with local logging", func(v url.Values) { v.Del("max_file_size_mb") }, "MaxFileSizeMB"},
		{"missing file count with local logging", func(v url.Values) { v.Del("retained_file_count") }, "RetainedFileCount"},
		{"negative file count", func(v url.Values) { v.Set("retained_file_count", "-1") }, "RetainedFileCount"},
		{"reserved advanced field", func(v url.Values) { v.Set("advanced_configuration", `{ fields: { category: "Spoofed" } }`) }, "AdvancedConfiguration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.seed(t, &logger.Settings{Level: logger.LevelError, Categories: []string{"App"}})
			before := f.store.values[logger.SettingKeyLogging]

			form := validForm()
			tt.edit(form)

			resp := f.do(t, http.MethodPost, Path, form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			data := f.views.last()
			assert.Equal(t, ModeEditing, data["Mode"])

			errs, ok := data["Errors"].(map[string]string)
			require.True(t, ok)
			assert.Contains(t, errs, tt.field)

			assert.Equal(t, before, f.store.values[logger.SettingKeyLogging])
			assert.Zero(t, f.store.puts)
			assert.Zero(t, f.logs.reloads)
		})
	}
}

func TestSaveWithoutLocalLoggingNeedsNoFileLimits(t *testing.T) {
	f := newFixture(t, true)

	form := validForm()
	form.Del("local_enabled")
	form.Del("max_file_size_mb")
	form.Del("retained_file_count")

	resp := f.do(t, http.MethodPost, Path, form)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	saved := logger.LoadSettings(f.store)
	require.NotNil(t, saved)
	assert.False(t, saved.LocalLoggingEnabled)
}

func TestSavePersistsAndReloads(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, &logger.Settings{Level: logger.LevelError, Categories: []string{"Legacy"}})

	resp := f.do(t, http.MethodPost, Path, validForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	saved := logger.LoadSettings(f.store)
	require.NotNil(t, saved)
	assert.Equal(t, &logger.Settings{
		Level:                       logger.LevelWarning,
		Categories:                  []string{"Web", "Auth", "Legacy"},
		LocalLoggingEnabled:         true,
		ObservabilityLoggingEnabled: true,
		AdvancedConfiguration:       `{ compress: true }`,
		MaxFileSizeBytes:            logger.MegabytesToBytes(5),
		RetainedFileCount:           3,
	}, saved)

	assert.Equal(t, 1, f.store.puts)
	assert.Equal(t, []string{"reload"}, f.logs.calls)

	data := f.views.last()
	assert.Equal(t, ModeReadOnly, data["Mode"])
	assert.Equal(t, MsgSaved, data["Success"])
	assert.Equal(t, View{
		Configured:           true,
		Level:                "Warning",
		Categories:           []string{"Web", "Auth", "Legacy"},
		LocalEnabled:         true,
		ObservabilityEnabled: true,
		MaxFileSizeMB:        5,
		RetainedFileCount:    3,
	}, data["Settings"])
}

func TestUnauthorizedUserCannotChangeAnything(t *testing.T) {
	f := newFixture(t, false)
	f.seed(t, &logger.Settings{Level: logger.LevelError, Categories: []string{"App"}})
	before := f.store.values[logger.SettingKeyLogging]

	tests := []struct {
		method string
		target string
		form   url.Values
	}{
		{http.MethodGet, Path + "/edit", nil},
		{http.MethodPost, Path, validForm()},
		{http.MethodPost, Path + "/toggle-local", validForm()},
		{http.MethodPost, Path + "/delete-log", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp := f.do(t, tt.method, tt.target, tt.form)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			data := f.views.last()
			assert.Equal(t, ModeReadOnly, data["Mode"])
			assert.Equal(t, false, data["CanEdit"])
			assert.Equal(t, MsgNotAuthorized, data["Error"])
		})
	}

	assert.Equal(t, before, f.store.values[logger.SettingKeyLogging])
	assert.Zero(t, f.store.puts)
	assert.Empty(t, f.logs.calls)
}

func TestCancelRedirects(t *testing.T) {
	f := newFixture(t, true)

	resp := f.do(t, http.MethodPost, Path+"/cancel", url.Values{"level": {"Trace"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get("Location"))
	assert.Zero(t, f.store.puts)
}

func TestToggleLocal(t *testing.T) {
	f := newFixture(t, true)

	form := validForm()

	resp := f.do(t, http.MethodPost, Path+"/toggle-local", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, f.views.last()["LocalSettingsVisible"])

	form.Del("local_enabled")

	f.do(t, http.MethodPost, Path+"/toggle-local", form)

	data := f.views.last()
	assert.Equal(t, false, data["LocalSettingsVisible"])
	assert.Equal(t, ModeEditing, data["Mode"])
	assert.Equal(t, "Warning", data["Form"].(*Form).Level)

	assert.Zero(t, f.store.puts)
	assert.Empty(t, f.logs.calls)
}

func TestDeleteLog(t *testing.T) {
	f := newFixture(t, true)

	resp := f.do(t, http.MethodPost, Path+"/delete-log", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, Path+"?deleted=1", resp.Header.Get("Location"))
	assert.Equal(t, []string{"recycle", "delete"}, f.logs.calls)

	f.do(t, http.MethodGet, Path+"?deleted=1", nil)
	assert.Equal(t, MsgDeleted, f.views.last()["Success"])
}

func TestSaveStoreFailureStaysEditing(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, &logger.Settings{Level: logger.LevelError, Categories: []string{"App"}})
	before := f.store.values[logger.SettingKeyLogging]

	f.store.putErr = errBroken

	resp := f.do(t, http.MethodPost, Path, validForm())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	data := f.views.last()
	assert.Equal(t, ModeEditing, data["Mode"])
	assert.Equal(t, MsgSaveFailed, data["Error"])
	assert.Nil(t, data["Success"])
	assert.Equal(t, "Warning", data["Form"].(*Form).Level)

	assert.Equal(t, before, f.store.values[logger.SettingKeyLogging])
	assert.Empty(t, f.logs.calls)
}

func TestSaveReloadFailureWarns(t *testing.T) {
	f := newFixture(t, true)
	f.logs.reloadErr = errBroken

	resp := f.do(t, http.MethodPost, Path, validForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := f.views.last()
	assert.Equal(t, ModeReadOnly, data["Mode"])
	assert.Equal(t, MsgSaved, data["Success"])
	assert.Equal(t, MsgReloadFailed, data["Warning"])
	assert.Equal(t, 1, f.store.puts)
}

func TestDeleteLogFailure(t *testing.T) {
	tests := []struct {
		name       string
		recycleErr error
		deleteErr  error
		calls      []string
	}{
		{"recycle fails", errBroken, nil, []string{"recycle"}},
		{"delete fails", nil, errBroken, []string{"recycle", "delete"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.logs.recycleErr = tt.recycleErr
			f.logs.deleteErr = tt.deleteErr

			resp := f.do(t, http.MethodPost, Path+"/delete-log", url.Values{})
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, Path+"?deleted=0", resp.Header.Get("Location"))
			assert.Equal(t, tt.calls, f.logs.calls)

			f.do(t, http.MethodGet, Path+"?deleted=0", nil)

			data := f.views.last()
			assert.Equal(t, MsgDeleteFailed, data["Error"])
			assert.Nil(t, data["Success"])
		})
	}
}
