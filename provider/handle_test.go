package provider

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tep-hq/playbook"
	"golang.org/x/oauth2"
)

func TestHandleMissingConfig(t *testing.T) {
	// Arrange
	h := NewHandle(NewResolver(MapSource(nil)), WithTransport(failTransport{t}))

	// Act
	c, err := h.Client()

	// Assert
	require.Nil(t, c)
	require.True(t, errors.Is(err, playbook.ErrBadConfig))

	_, err = h.GetSession(context.Background(), &oauth2.Token{AccessToken: "access-1"})
	require.True(t, errors.Is(err, playbook.ErrBadConfig))

	_, err = h.SignInWithPassword(context.Background(), testEmail, testPassword)
	require.True(t, errors.Is(err, playbook.ErrBadConfig))
}

func TestHandleSingleInstance(t *testing.T) {
	// Arrange
	h := NewHandle(NewResolver(MapSource(map[string]string{
		"SUPABASE_URL":      "https://x.supabase.co",
		"SUPABASE_ANON_KEY": "key",
	})), WithTransport(failTransport{t}))

	// Act
	var wg sync.WaitGroup
	clients := make([]*Client, 8)
	errs := make([]error, 8)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i], errs[i] = h.Client()
		}(i)
	}
	wg.Wait()

	// Assert
	for i, c := range clients {
		require.Nil(t, errs[i])
		require.Same(t, clients[0], c)
	}
}

func TestHandleDelegates(t *testing.T) {
	// Arrange
	f := newFakeGoTrue(t)
	h := NewHandle(NewResolver(MapSource(map[string]string{
		"SUPABASE_URL":      f.URL,
		"SUPABASE_ANON_KEY": testAnonKey,
	})))
	ctx := context.Background()

	// Act
	s, err := h.SignInWithPassword(ctx, testEmail, testPassword)
	require.Nil(t, err)

	got, err := h.GetSession(ctx, s.Token)
	require.Nil(t, err)

	u, err := h.GetUser(ctx, s.Token.AccessToken)
	require.Nil(t, err)

	res, err := h.SignUp(ctx, "someone@example.com", testPassword)
	require.Nil(t, err)

	// Assert
	require.Equal(t, testEmail, got.User.Email)
	require.Equal(t, testEmail, u.Email)
	require.True(t, res.Authenticated())
	require.Nil(t, h.SignOut(ctx, s.Token))
	require.Equal(t, []string{"/token?password", "/user", "/user", "/signup", "/logout"}, f.Calls())
}
