package playbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
)

func TestEnvironmentValid(t *testing.T) {
	require.Nil(t, playbook.Production.Valid())
	require.ErrorIs(t, playbook.Environment("nope").Valid(), playbook.ErrNotValid)
}

func TestEnvironmentSecureCookies(t *testing.T) {
	require.False(t, playbook.Development.SecureCookies())
	require.False(t, playbook.Testing.SecureCookies())
	require.True(t, playbook.Staging.SecureCookies())
	require.True(t, playbook.Production.SecureCookies())
}

func TestEnvVarOrEnv(t *testing.T) {
	t.Setenv("PLAYBOOK_TEST_ENV", "staging")
	require.Equal(t, playbook.Staging, playbook.EnvVarOrEnv("PLAYBOOK_TEST_ENV", playbook.Development))

	t.Setenv("PLAYBOOK_TEST_ENV", "moon")
	require.Equal(t, playbook.Development, playbook.EnvVarOrEnv("PLAYBOOK_TEST_ENV", playbook.Development))
}

func TestEnvVarOrDuration(t *testing.T) {
	t.Setenv("PLAYBOOK_TEST_DUR", "3s")
	require.Equal(t, 3*time.Second, playbook.EnvVarOrDuration("PLAYBOOK_TEST_DUR", time.Second))

	t.Setenv("PLAYBOOK_TEST_DUR", "soon")
	require.Equal(t, time.Second, playbook.EnvVarOrDuration("PLAYBOOK_TEST_DUR", time.Second))
}

func TestEnvVarOrStrings(t *testing.T) {
	def := []string{"a"}
	for _, tc := range []struct {
		name string
		val  string
		want []string
	}{
		{"Unset", "", def},
		{"Only-Commas", " , ,", def},
		{"Trimmed", " dashboard.html , handbook/*.html,", []string{"dashboard.html", "handbook/*.html"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PLAYBOOK_TEST_LIST", tc.val)
			require.Equal(t, tc.want, playbook.EnvVarOrStrings("PLAYBOOK_TEST_LIST", def))
		})
	}
}

func TestEnvVarOrBoolIntString(t *testing.T) {
	t.Setenv("PLAYBOOK_TEST_BOOL", "TRUE")
	require.True(t, playbook.EnvVarOrBool("PLAYBOOK_TEST_BOOL", false))

	t.Setenv("PLAYBOOK_TEST_INT", "x")
	require.Equal(t, 7, playbook.EnvVarOrInt("PLAYBOOK_TEST_INT", 7))

	t.Setenv("PLAYBOOK_TEST_STR", "")
	require.Equal(t, "def", playbook.EnvVarOrString("PLAYBOOK_TEST_STR", "def"))
}
