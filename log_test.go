package playbook_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
)

func TestMask(t *testing.T) {
	for _, tc := range []struct {
		name string
		vals url.Values
		key  string
		want url.Values
	}{
		{"zero", url.Values{}, "", url.Values{}},
		{
			"mismatch",
			url.Values{"password": []string{"hunter2"}},
			"passwrod",
			url.Values{"password": []string{"hunter2"}},
		},
		{
			"match",
			url.Values{"password": []string{"hunter2"}},
			"password",
			url.Values{"password": []string{playbook.LogMaskVal}},
		},
		{
			"squash-multiple",
			url.Values{"password": []string{"hunter2", "hunter3"}},
			"password",
			url.Values{"password": []string{playbook.LogMaskVal}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			playbook.Mask(tc.vals, tc.key)
			require.Equal(t, tc.want, tc.vals)
		})
	}
}

func TestMaskPasswords(t *testing.T) {
	vals := url.Values{
		"signin-email":    []string{"ada@example.com"},
		"signin-password": []string{"hunter2"},
		"signup-password": []string{"hunter3"},
	}

	playbook.MaskPasswords(vals)

	require.Equal(t, "ada@example.com", vals.Get("signin-email"))
	require.Equal(t, playbook.LogMaskVal, vals.Get("signin-password"))
	require.Equal(t, playbook.LogMaskVal, vals.Get("signup-password"))
}
