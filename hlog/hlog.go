package hlog

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger logr.Logger

func IsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}

// Init initializes the global Logger. Interactive runs log to stderr with a
// console writer; otherwise output goes to a rotating file. verbose raises
// the level to info, debug to debug (which also surfaces V(1) logs).
func Init(verbose bool, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	var w io.Writer
	if LogToStderr() || IsTerminal() {
		w = os.Stderr
	} else {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(logDir(), "tasmoctl.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	zl := zerolog.New(w)
	if IsTerminal() {
		zl = zl.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zl = zl.Level(level).With().Caller().Timestamp().Logger()

	Logger = zerologr.New(&zl)
	Logger.V(1).Info("Initialized", "level", level.String())
}

func LogToStderr() bool {
	return os.Getenv("TASMOCTL_LOG") == "stderr"
}

func logDir() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "tasmoctl", "logs")
}
