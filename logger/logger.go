package logger

import (
	"log"
	"os"
	"path"
	"regexp"
	"runtime"
	"strconv"

	"github.com/fatih/color"
)

const knownFrames = 2

var playbookPathRegex = regexp.MustCompile("playbook/.*$")

// The Logger interface defines the levels a logging can occur at.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Fatal(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() LogLevel
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

type LogLevel int

const (
	LogLevelUnk LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

func NewLogLevel(val string) LogLevel {
	switch val {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	case "FATAL":
		return LogLevelFatal
	default:
		return LogLevelUnk
	}
}

func (ll LogLevel) String() string {
	switch ll {
	case LogLevelDebug:
		return "[DEBUG]"
	case LogLevelInfo:
		return "[INFO]"
	case LogLevelWarn:
		return "[WARN]"
	case LogLevelError:
		return "[ERROR]"
	case LogLevelFatal:
		return "[FATAL]"
	default:
		return "[UNK]"
	}
}

// PlaybookLogger implements Logger using log.
type PlaybookLogger struct {
	skip int
	env  string
	l    *log.Logger
	ll   LogLevel
}

// New constructs a Logger.
//
// Logs are printed to os.Stdout by default, using the std lib log pkg.
// The default environment is DEVELOPMENT.
// The default log level is INFO.
//
// If SENTRY_DSN is set, New wraps the *PlaybookLogger in a SentryLogger.
func New(opts ...LoggerOptFn) Logger {
	l := NewPlaybookLogger(opts...)
	if sentryDsn := os.Getenv("SENTRY_DSN"); sentryDsn != "" {
		l.Info("SENTRY_DSN set, configuring SentryLogger", nil)
		return NewSentryLogger(l, sentryDsn)
	}

	return l
}

// NewPlaybookLogger constructs a *PlaybookLogger, never wrapping it.
func NewPlaybookLogger(opts ...LoggerOptFn) *PlaybookLogger {
	l := &PlaybookLogger{
		env: getEnvOrString("ENVIRONMENT", "DEVELOPMENT"),
		l:   log.New(os.Stdout, "", log.LstdFlags),
		ll:  LogLevelInfo,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *PlaybookLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *PlaybookLogger) Debug(msg string, ctx *LogContext) {
	if l.ll > LogLevelDebug {
		return
	}

	l.log(color.WhiteString, LogLevelDebug, msg, ctx)
}

// Error writes an error log.
func (l *PlaybookLogger) Error(msg string, ctx *LogContext) {
	if l.ll > LogLevelError {
		return
	}

	l.log(color.RedString, LogLevelError, msg, ctx)
}

// Fatal writes a fatal log.
// Fatal does not exit; calling code decides how to stop.
func (l *PlaybookLogger) Fatal(msg string, ctx *LogContext) {
	if l.ll > LogLevelFatal {
		return
	}

	l.log(color.MagentaString, LogLevelFatal, msg, ctx)
}

// Info writes an info log.
func (l *PlaybookLogger) Info(msg string, ctx *LogContext) {
	if l.ll > LogLevelInfo {
		return
	}

	l.log(color.BlueString, LogLevelInfo, msg, ctx)
}

// Warn writes a warning log.
func (l *PlaybookLogger) Warn(msg string, ctx *LogContext) {
	if l.ll > LogLevelWarn {
		return
	}

	l.log(color.YellowString, LogLevelWarn, msg, ctx)
}

// LogLevel returns the LogLevel set for the PlaybookLogger.
func (l *PlaybookLogger) LogLevel() LogLevel { return l.ll }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *PlaybookLogger) Skip() int { return l.skip }

// log executes printing the log message,
// including any context if available.
func (l *PlaybookLogger) log(colorizer func(string, ...any) string, level LogLevel, msg string, ctx *LogContext) {
	var toPrint string
	if ctx != nil && ctx.Caller != "" {
		toPrint = ctx.Caller
	} else {
		// NOTE: skip the frames PlaybookLogger adds and however many it is configured with
		_, file, line, _ := runtime.Caller(knownFrames + l.skip)
		toPrint = fmtCaller(file, line)
	}

	msg = colorizer("%s %s '%s'", level, toPrint, msg)
	if ctx == nil {
		l.l.Println(msg)
		return
	}

	l.l.Println(msg, "log_context:", ctx)
}

// fmtCaller shortens file to the path within the module,
// or else the file and the directory it is in:
//
//	/home/dlk/my-project/main.go => my-project/main.go
func fmtCaller(file string, line int) string {
	if match := playbookPathRegex.FindString(file); match != "" {
		return match + ":" + strconv.Itoa(line)
	}

	dir, name := path.Split(file)
	return path.Base(dir) + "/" + name + ":" + strconv.Itoa(line)
}

func getEnvOrString(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	return val
}
