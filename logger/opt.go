package logger

import "log"

// A LoggerOptFn is a functional option configuring a PlaybookLogger when constructing a new one.
type LoggerOptFn func(*PlaybookLogger)

// WithEnv sets the environment PlaybookLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *PlaybookLogger) {
		l.env = env
	}
}

// WithLevel sets the log level PlaybookLogger uses.
// LogLevelUnk is ignored.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *PlaybookLogger) {
		if level == LogLevelUnk {
			return
		}

		l.ll = level
	}
}

// WithLogger sets the log.Logger PlaybookLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *PlaybookLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *PlaybookLogger) {
		l.skip = skip
	}
}
