package logging

import (
	"io"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const DefaultLogFile = "swayfader/swayfader.log"

var (
	Logger  = zerolog.Nop()
	logFile *os.File
	logPath string
)

// timestampHook adds timestamp at the end of each log event
type timestampHook struct{}

func (h timestampHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	e.Time("ts", time.Now())
}

// Options controls where log output goes
type Options struct {
	Path    string // Log file path; empty uses the XDG state dir
	Console bool   // Also write human-readable output to stderr
	Debug   bool   // Enable debug level
}

// Init initializes the logging system with zerolog
func Init(opts Options) error {
	path := opts.Path
	if path == "" {
		p, err := xdg.StateFile(DefaultLogFile)
		if err != nil {
			return err
		}
		path = p
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = f
	logPath = path

	var out io.Writer = logFile
	if opts.Console {
		out = zerolog.MultiLevelWriter(logFile, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.MessageFieldName = "msg"

	Logger = zerolog.New(out).Hook(timestampHook{})
	SetDebug(opts.Debug)

	return nil
}

// SetOutput points the logger at w without a log file
func SetOutput(w io.Writer) {
	Logger = zerolog.New(w).Hook(timestampHook{})
}

// SetDebug toggles debug level logging
func SetDebug(on bool) {
	if on {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Path returns the log file in use, empty before Init
func Path() string {
	return logPath
}

// Close closes the log file
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Debug returns a debug level event
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info returns an info level event
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn returns a warn level event
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error returns an error level event
func Error() *zerolog.Event {
	return Logger.Error()
}
