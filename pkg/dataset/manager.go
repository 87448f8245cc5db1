package dataset

import (
	"errors"
	"io/fs"
	"path/filepath"

	"digital.vasic.webuitest/pkg/env"
	"digital.vasic.webuitest/pkg/logging"
)

// Well-known sections of an environment document.
const (
	SectionURLs           = "urls"
	SectionTimeouts       = "timeouts"
	SectionTestUsers      = "test_users"
	SectionSearchKeywords = "search_keywords"

	// UserPageURLKey is the urls entry replaced by the
	// USER_PAGE_URL override.
	UserPageURLKey = "user_page"

	// DefaultTimeoutMs is returned by Timeout for unknown keys.
	DefaultTimeoutMs = 10000
)

const (
	commonFile   = "common"
	testDataFile = "test_data"
)

// User is a test account.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Manager holds the resolved test data of one environment.
// Loading never fails: missing or malformed documents are
// logged and treated as empty. Reload must not run
// concurrently with reads on the same Manager.
type Manager struct {
	env      string
	root     string
	dataPath string
	vars     env.Loader
	logger   logging.Logger

	common Document
	data   Document
}

// Option configures a Manager.
type Option func(*Manager)

// WithRoot sets the project root containing the data
// directory. Defaults to the working directory.
func WithRoot(dir string) Option {
	return func(m *Manager) { m.root = dir }
}

// WithLogger sets the logger for load and resolution
// diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithEnvLoader sets the source of environment variables used
// for environment selection and overrides.
func WithEnvLoader(l env.Loader) Option {
	return func(m *Manager) { m.vars = l }
}

// NewManager loads the common document and the document of
// envName. An empty envName selects the environment from ENV.
func NewManager(envName string, opts ...Option) *Manager {
	m := &Manager{root: "."}
	for _, opt := range opts {
		opt(m)
	}
	if m.vars == nil {
		m.vars = env.NewLoader()
	}
	m.logger = logging.OrNull(m.logger)

	m.env = envName
	if m.env == "" {
		m.env = env.CurrentEnv(m.vars)
	}
	m.dataPath = env.TestDataPath(m.env)

	m.Reload()
	return m
}

// Reload re-reads both documents from disk.
func (m *Manager) Reload() {
	m.loadCommon()
	m.loadTestData()
}

func (m *Manager) loadCommon() {
	doc, path, err := readDocument(filepath.Join(m.root, "data", commonFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Warn("common test data file not found",
			logging.StringField("path", path))
		m.common = Document{}
	case err != nil:
		m.logger.Error("failed to load common test data",
			logging.StringField("path", path), logging.ErrorField(err))
		m.common = Document{}
	default:
		m.logger.Info("loaded common test data",
			logging.StringField("path", path))
		m.common = doc
	}
}

func (m *Manager) loadTestData() {
	base := filepath.Join(m.root, filepath.FromSlash(m.dataPath), testDataFile)
	raw, path, err := readDocument(base)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Warn("test data file not found",
			logging.StringField("env", m.env),
			logging.StringField("path", path))
		m.data = Document{}
		return
	case err != nil:
		m.logger.Error("failed to load test data",
			logging.StringField("env", m.env),
			logging.StringField("path", path), logging.ErrorField(err))
		m.data = Document{}
		return
	}

	resolved, _ := NewResolver(m.common, m.logger).Resolve(raw).(map[string]any)
	m.data = resolved
	m.applyOverrides()
	m.logger.Info("loaded test data",
		logging.StringField("env", m.env),
		logging.StringField("path", path))
}

// applyOverrides replaces credential and user-page entries
// from environment variables. Only these two paths are
// overridable.
func (m *Manager) applyOverrides() {
	if username, password, ok := env.Credentials(m.vars); ok {
		m.data[SectionTestUsers] = []any{
			map[string]any{"username": username, "password": password},
		}
		logging.NewRedactingLogger(m.logger, password).Info(
			"test users overridden from environment",
			logging.StringField("username", username),
			logging.StringField("password", password))
	}

	if url := m.vars.Get(env.VarUserPageURL); url != "" {
		urls, ok := m.data[SectionURLs].(map[string]any)
		if !ok {
			urls = map[string]any{}
			m.data[SectionURLs] = urls
		}
		urls[UserPageURLKey] = url
		m.logger.Info("user page url overridden from environment",
			logging.StringField("url", env.RedactURL(url)))
	}
}

// Env returns the environment name.
func (m *Manager) Env() string { return m.env }

// DataPath returns the environment data directory relative to
// the root, e.g. "data/test".
func (m *Manager) DataPath() string { return m.dataPath }

// All returns a copy of the resolved document.
func (m *Manager) All() Document {
	out, _ := deepCopy(m.data).(map[string]any)
	return out
}

// Common returns a copy of the common document.
func (m *Manager) Common() Document {
	out, _ := deepCopy(m.common).(map[string]any)
	return out
}

// Section returns a copy of a top-level entry, or nil.
func (m *Manager) Section(name string) any {
	return deepCopy(m.data[name])
}

// URLs returns the string entries of the urls section.
func (m *Manager) URLs() map[string]string {
	out := map[string]string{}
	section, _ := m.data[SectionURLs].(map[string]any)
	for k, v := range section {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// URL returns a single url entry.
func (m *Manager) URL(key string) (string, bool) {
	u, ok := m.URLs()[key]
	return u, ok
}

// Timeouts returns the numeric entries of the timeouts
// section in milliseconds.
func (m *Manager) Timeouts() map[string]int {
	out := map[string]int{}
	section, _ := m.data[SectionTimeouts].(map[string]any)
	for k, v := range section {
		if n, ok := toInt(v); ok {
			out[k] = n
		}
	}
	return out
}

// Timeout returns a timeout in milliseconds, or
// DefaultTimeoutMs when key is absent.
func (m *Manager) Timeout(key string) int {
	if n, ok := m.Timeouts()[key]; ok {
		return n
	}
	return DefaultTimeoutMs
}

// TestUsers returns the accounts of the test_users section.
// Entries that are not mappings are skipped.
func (m *Manager) TestUsers() []User {
	list, _ := m.data[SectionTestUsers].([]any)
	users := make([]User, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var u User
		u.Username, _ = entry["username"].(string)
		u.Password, _ = entry["password"].(string)
		users = append(users, u)
	}
	return users
}

// TestUser returns the account at index.
func (m *Manager) TestUser(index int) (User, bool) {
	users := m.TestUsers()
	if index < 0 || index >= len(users) {
		return User{}, false
	}
	return users[index], true
}

// SearchKeywords returns the string entries of the
// search_keywords section.
func (m *Manager) SearchKeywords() []string {
	list, _ := m.data[SectionSearchKeywords].([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SearchKeyword returns the keyword at index.
func (m *Manager) SearchKeyword(index int) (string, bool) {
	keywords := m.SearchKeywords()
	if index < 0 || index >= len(keywords) {
		return "", false
	}
	return keywords[index], true
}
