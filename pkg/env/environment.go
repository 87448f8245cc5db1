package env

import "path"

// Variables consumed by the framework.
const (
	VarEnv          = "ENV"
	VarBrowser      = "BROWSER"
	VarHeadless     = "HEADLESS"
	VarTestUsername = "TEST_USERNAME"
	VarTestPassword = "TEST_PASSWORD"
	VarUserPageURL  = "USER_PAGE_URL"
)

// DefaultEnv is used when ENV is unset.
const DefaultEnv = "test"

// CurrentEnv returns the selected environment name.
func CurrentEnv(l Loader) string {
	if l == nil {
		return NewLoader().GetWithDefault(VarEnv, DefaultEnv)
	}
	return l.GetWithDefault(VarEnv, DefaultEnv)
}

// TestDataPath returns the per-environment data directory,
// relative to the project root.
func TestDataPath(env string) string {
	return path.Join("data", env)
}

// ReportPath returns the per-environment report directory,
// relative to the project root.
func ReportPath(env string) string {
	return path.Join("reports", env)
}

// Credentials returns the override test account, and whether
// both halves are set.
func Credentials(l Loader) (username, password string, ok bool) {
	username = l.Get(VarTestUsername)
	password = l.Get(VarTestPassword)
	return username, password, username != "" && password != ""
}
