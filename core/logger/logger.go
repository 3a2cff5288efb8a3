package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	SUCCESS
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case SUCCESS:
		return "OK"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// sink is one destination for a level. Colour codes are only written to
// sinks that asked for them so log files stay plain text.
type sink struct {
	w     io.Writer
	color bool
}

type Logger struct {
	verbose bool
	mu      sync.RWMutex
	sinks   map[LogLevel][]sink
	now     func() time.Time
	exit    func(int)
}

var globalLogger = New(os.Stdout)

// New returns a logger writing every level to w with colour.
func New(w io.Writer) *Logger {
	l := &Logger{
		sinks: make(map[LogLevel][]sink),
		now:   time.Now,
		exit:  os.Exit,
	}
	for level := DEBUG; level <= FATAL; level++ {
		l.sinks[level] = []sink{{w: w, color: true}}
	}
	return l
}

// Default returns the process-wide logger used by the package-level helpers.
func Default() *Logger {
	return globalLogger
}

func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetWriter replaces every sink of level with w.
func (l *Logger) SetWriter(level LogLevel, w io.Writer, color bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks[level] = []sink{{w: w, color: color}}
}

func (l *Logger) SetWriterForAll(w io.Writer, color bool) {
	for level := DEBUG; level <= FATAL; level++ {
		l.SetWriter(level, w, color)
	}
}

// AddWriter fans level out to w in addition to the existing sinks.
func (l *Logger) AddWriter(level LogLevel, w io.Writer, color bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks[level] = append(l.sinks[level], sink{w: w, color: color})
}

func (l *Logger) AddWriterForAll(w io.Writer, color bool) {
	for level := DEBUG; level <= FATAL; level++ {
		l.AddWriter(level, w, color)
	}
}

func getColor(level LogLevel) string {
	switch level {
	case DEBUG:
		return ColorGray
	case INFO:
		return ColorBlue
	case SUCCESS:
		return ColorGreen
	case WARN:
		return ColorYellow
	case ERROR:
		return ColorRed
	case FATAL:
		return ColorPurple
	default:
		return ColorWhite
	}
}

func (l *Logger) formatMessage(level LogLevel, message string, color bool) string {
	timestamp := l.now().Format("06-01-02 15:04:05")
	if !color {
		return fmt.Sprintf("[%s] %-5s %s", timestamp, level.String(), message)
	}

	return fmt.Sprintf(
		"%s[%s]%s %s%-5s%s %s%s",
		ColorGray, timestamp, ColorReset,
		getColor(level), level.String(), ColorReset,
		message, ColorReset,
	)
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	if level == DEBUG && !l.verbose {
		l.mu.RUnlock()
		return
	}
	sinks := append([]sink(nil), l.sinks[level]...)
	l.mu.RUnlock()

	message := fmt.Sprintf(format, args...)
	for _, s := range sinks {
		fmt.Fprintln(s.w, l.formatMessage(level, message, s.color))
	}

	if level == FATAL {
		l.exit(1)
	}
}

func (l *Logger) Debug(format string, args ...interface{})   { l.log(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.log(INFO, format, args...) }
func (l *Logger) Success(format string, args ...interface{}) { l.log(SUCCESS, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})    { l.log(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{})   { l.log(ERROR, format, args...) }
func (l *Logger) Fatal(format string, args ...interface{})   { l.log(FATAL, format, args...) }

func SetVerbose(verbose bool) {
	globalLogger.SetVerbose(verbose)
}

func IsVerbose() bool {
	return globalLogger.IsVerbose()
}

func SetWriterForAll(w io.Writer, color bool) {
	globalLogger.SetWriterForAll(w, color)
}

func AddWriterForAll(w io.Writer, color bool) {
	globalLogger.AddWriterForAll(w, color)
}

// SetErrorWriter routes ERROR and FATAL to stderr.
func SetErrorWriter() {
	globalLogger.SetWriter(ERROR, os.Stderr, true)
	globalLogger.SetWriter(FATAL, os.Stderr, true)
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Success(format string, args ...interface{}) {
	globalLogger.log(SUCCESS, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
