package discreteid

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// defaultLogFormat defines the format used for log output.
const defaultLogFormat = "%{time:2006/01/02 15:04:05} %{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"

// NewLogger returns a go-logging logger for module that writes to stderr at
// the given level ("critical", "error", "warning", "notice", "info",
// "debug"). Unknown levels fall back to INFO. The backend belongs to the
// returned logger; the package-wide go-logging backend is left alone.
func NewLogger(level string, module string) *logging.Logger {
	return newLoggerTo(os.Stderr, level, module)
}

func newLoggerTo(w io.Writer, level string, module string) *logging.Logger {
	backend := logging.NewLogBackend(w, "", 0)

	fm := logging.MustStringFormatter(defaultLogFormat)
	fmtBackend := logging.NewBackendFormatter(backend, fm)

	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	lvlBackend := logging.AddModuleLevel(fmtBackend)
	lvlBackend.SetLevel(lvl, "")

	log := logging.MustGetLogger(module)
	log.SetBackend(lvlBackend)
	return log
}
