/*
Package ranger initializes and manages a playbook app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New] using a [Config] read by [NewConfig].

[New] wires the pages, the guard protecting some of them and the auth forms
to the provider, the web session store, the token denylist and, when a database is configured, profile rows.
A provider without a URL or anon key stops [New] with an error wrapping playbook.ErrBadConfig;
treat it as fatal.

[*Ranger.Guide] begins a playbook app's web server.
By default, [*Ranger.Guide] listens on [DefaultHost]:[DefaultPort] (localhost:3000).
Stop that web server with [*Ranger.Shutdown] or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures a playbook app through environment variables.
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - AUTH_RATE_LIMIT: form submissions per second allowed from one IP address; default: 5; 0 disables
  - BASE_URL: the base URL the application runs on; default: http://HOST:PORT
  - CORS_ORIGINS: comma-separated origins allowed to submit the auth forms
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_NAME: the name of the database; without it or DATABASE_URL, profile rows are skipped
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the sslmode of connections to the database
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - ENVIRONMENT: the environment the application is running in; default: DEVELOPMENT; cf. [playbook.Environment]
  - HOST: the host the application is running on; default: localhost
  - LANDING_PAGE: where "/" and a sign in without a return-to value go; default: /dashboard.html
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - NEXT_PUBLIC_SUPABASE_URL, VITE_SUPABASE_URL, SUPABASE_URL: the provider's project URL, first set wins
  - NEXT_PUBLIC_SUPABASE_ANON_KEY, VITE_SUPABASE_ANON_KEY, SUPABASE_ANON_KEY: the provider's public key, first set wins
  - PORT: the port the application should listen on; default: :3000
  - PROTECTED_PAGES: comma-separated glob patterns of pages requiring a session; default: dashboard.html,handbook.html
  - PROVIDER_ENV_FILES: comma-separated dotenv files to look up the provider's variables in after the environment
  - PROVIDER_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for requests to the provider; default: 10s
  - REDIS_PASSWORD: the password for authenticating to Redis
  - REDIS_URL: a redis:// URL; when set, web sessions and signed out tokens are kept in Redis
  - SENTRY_DSN: the DSN errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies; cf. [encoding/hex]
  - SESSION_MAX_AGE: the number of seconds a web session lasts; default: 86400
  - SESSION_NAME: the name of the web session cookie; default: playbook
  - SIGN_IN_PAGE: the page holding the sign in form; default: /sign-in.html
  - SITE_DIR: a directory of pages served instead of the built in ones
  - SUPABASE_JWT_SECRET: the secret access tokens are signed with; when set, tokens are verified locally
*/
package ranger
