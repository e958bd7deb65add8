package logger

// NoopLogger discards every log.
type NoopLogger struct{}

func (NoopLogger) Debug(string, *LogContext) {}
func (NoopLogger) Error(string, *LogContext) {}
func (NoopLogger) Fatal(string, *LogContext) {}
func (NoopLogger) Info(string, *LogContext)  {}
func (NoopLogger) Warn(string, *LogContext)  {}
func (NoopLogger) LogLevel() LogLevel        { return LogLevelUnk }
