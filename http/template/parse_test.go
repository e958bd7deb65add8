package template_test

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
	"github.com/tep-hq/playbook/http/session"
	"github.com/tep-hq/playbook/http/template"
)

func TestParse(t *testing.T) {
	pages := fstest.MapFS{
		"page.html":   {Data: []byte(`<p>{{ .Data }}</p>{{ template "status" . }}`)},
		"broken.html": {Data: []byte(`{{ if }}`)},
		"env.html":    {Data: []byte(`{{ env }} {{ rootUrl }}`)},
	}

	tcs := []struct {
		name string
		fps  []string
		err  bool
	}{
		{"none", nil, true},
		{"empty-string", []string{""}, true},
		{"missing", []string{"missing.html"}, true},
		{"broken", []string{"broken.html"}, true},
		{"page-with-status", []string{"page.html", template.StatusTmpl}, false},
		{"skips-empty", []string{"", "page.html", template.StatusTmpl}, false},
		{"embedded-only", []string{template.ErrTmpl}, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			p := template.NewParser(
				template.WithFS(pages),
				template.WithFn(template.Env(playbook.Testing)),
				template.WithFn(template.RootUrl(nil)),
			)

			// Act
			tmpl, err := p.Parse(tc.fps...)

			// Assert
			if tc.err {
				require.NotNil(t, err)
				require.Nil(t, tmpl)
				return
			}

			require.Nil(t, err)
			require.NotNil(t, tmpl)
		})
	}
}

func TestParseNoFiles(t *testing.T) {
	_, err := template.NewParser().Parse()
	require.ErrorIs(t, err, template.ErrNoFiles)
}

func TestStatus(t *testing.T) {
	// Arrange
	pages := fstest.MapFS{
		"page.html": {Data: []byte(`{{ template "status" . }}`)},
	}
	p := template.NewParser(template.WithFS(pages))
	tmpl, err := p.Parse("page.html", template.StatusTmpl)
	require.Nil(t, err)

	data := struct{ Flashes []session.Flash }{
		Flashes: []session.Flash{
			{Class: session.FlashSuccess, Msg: "Signed in. Redirecting…"},
			{Class: session.FlashError, Msg: "Invalid login credentials"},
		},
	}

	// Act
	b := new(bytes.Buffer)
	err = tmpl.Execute(b, data)

	// Assert
	require.Nil(t, err)
	out := b.String()
	require.Contains(t, out, `id="auth-status"`)
	require.Contains(t, out, "Signed in. Redirecting…")
	require.Contains(t, out, `class="flash flash-error" style="color: #b42318"`)
	require.Equal(t, 1, strings.Count(out, "window.alert("), "only error flashes alert")
	require.Contains(t, out, `window.alert("Invalid login credentials")`)
}

func TestStatusAlerts(t *testing.T) {
	tcs := []struct {
		name   string
		flash  session.Flash
		inline bool
		alert  string
	}{
		{"success", session.Flash{Class: session.FlashSuccess, Msg: "Signed in. Redirecting…"}, true, ""},
		{"error", session.Flash{Class: session.FlashError, Msg: "Sign-in failed."}, true, "Sign-in failed."},
		{"alert-only", session.Flash{Class: session.FlashAlert, Msg: "Sign-out failed."}, false, "Sign-out failed."},
		{
			"success-with-alert",
			session.Flash{Class: session.FlashSuccess, Msg: "Account created. You can sign in now.", Alert: "Account created. You can now sign in."},
			true,
			"Account created. You can now sign in.",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			pages := fstest.MapFS{"page.html": {Data: []byte(`{{ template "status" . }}`)}}
			tmpl, err := template.NewParser(template.WithFS(pages)).Parse("page.html", template.StatusTmpl)
			require.Nil(t, err)

			data := struct{ Flashes []session.Flash }{Flashes: []session.Flash{tc.flash}}
			b := new(bytes.Buffer)

			// Act
			err = tmpl.Execute(b, data)

			// Assert
			require.Nil(t, err)
			out := b.String()
			require.Equal(t, tc.inline, strings.Contains(out, `class="flash flash-`))
			if tc.alert == "" {
				require.NotContains(t, out, "window.alert(")
				return
			}

			require.Equal(t, 1, strings.Count(out, "window.alert("))
			require.Contains(t, out, `window.alert("`+tc.alert+`")`)
		})
	}
}

func TestFuncs(t *testing.T) {
	name, fn := template.Env(playbook.Staging)
	require.Equal(t, "env", name)
	require.Equal(t, "STAGING", fn())

	name, root := template.RootUrl(nil)
	require.Equal(t, "rootUrl", name)
	require.Empty(t, root())

	u, err := url.Parse("https://playbook.example.com")
	require.Nil(t, err)
	_, root = template.RootUrl(u)
	require.Equal(t, "https://playbook.example.com", root())
}
