/*
Package provider initializes and wraps the authentication provider (Supabase GoTrue).

# Configuration

A Resolver finds the provider's project URL and public (anon) key.
Three naming conventions are accepted and evaluated first match wins, per value:

  - NEXT_PUBLIC_SUPABASE_URL, NEXT_PUBLIC_SUPABASE_ANON_KEY
  - VITE_SUPABASE_URL, VITE_SUPABASE_ANON_KEY
  - SUPABASE_URL, SUPABASE_ANON_KEY

Each name is looked up in every Source in order before moving to the next name.

# Handle

A Handle builds exactly one *Client on first use and returns that same *Client afterwards.
A missing URL or key is a fatal configuration error:
Handle.Client returns an error wrapping playbook.ErrBadConfig and no network call is attempted.

Handle and Client both implement Provider,
the set of operations the access guard and the auth form controller consume.

# Sessions

A Session is the provider's token bundle and the user it belongs to.
This package never inspects tokens beyond verifying them;
persisting them is up to the caller.
GetSession refreshes an expired access token when a refresh token is available
and marks the Session as Refreshed.
*/
package provider
