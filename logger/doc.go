/*
Package logger provides logging for the playbook app.

# Logger

The Logger interface exposes five levels:

  - Debug
  - Info
  - Warn
  - Error
  - Fatal

Each takes a message and an optional *LogContext
carrying the error, request, user and any additional data pertinent to the event.
A LogContext is printed as JSON after the message.

# PlaybookLogger

PlaybookLogger is the default implementation,
colorizing each level and printing the file and line of the call site.

# SentryLogger

When SENTRY_DSN is set, New returns a SentryLogger wrapping the PlaybookLogger.
Warn, Error and Fatal logs carrying a LogContext.Error are also sent to Sentry.
*/
package logger
