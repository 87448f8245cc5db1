package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentEnv(t *testing.T) {
	assert.Equal(t, "test", CurrentEnv(NewIsolatedLoader(nil)))
	assert.Equal(t, "prod", CurrentEnv(NewIsolatedLoader(map[string]string{VarEnv: "prod"})))

	t.Setenv(VarEnv, "dev")
	assert.Equal(t, "dev", CurrentEnv(nil))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "data/dev", TestDataPath("dev"))
	assert.Equal(t, "reports/prod", ReportPath("prod"))
}

func TestCredentials(t *testing.T) {
	u, p, ok := Credentials(NewIsolatedLoader(map[string]string{
		VarTestUsername: "alice",
		VarTestPassword: "pw",
	}))
	assert.True(t, ok)
	assert.Equal(t, "alice", u)
	assert.Equal(t, "pw", p)

	_, _, ok = Credentials(NewIsolatedLoader(map[string]string{VarTestUsername: "alice"}))
	assert.False(t, ok)
}
