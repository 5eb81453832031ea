// Package logging sets up the logfmt logger shared by the tools. Lines go to
// stderr so stdout stays reserved for command output.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
)

var (
	lock   sync.Mutex
	logger = newLogger(os.Stderr, "minivsfs", level.AllowWarn())
)

func newLogger(w io.Writer, component string, filter level.Option) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = level.NewFilter(l, filter)
	return log.With(l, "ts", log.DefaultTimestampUTC, "component", component)
}

// ParseLevel accepts debug, info, warn/warning, error and none. An empty
// name selects the default, warn.
func ParseLevel(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn", "warning", "":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, errors.Errorf("unknown log level %q", name)
}

// Init replaces the process logger.
func Init(w io.Writer, component string, levelName string) error {
	filter, err := ParseLevel(levelName)
	if err != nil {
		return err
	}

	lock.Lock()
	defer lock.Unlock()
	logger = newLogger(w, component, filter)
	return nil
}

func current() log.Logger {
	lock.Lock()
	defer lock.Unlock()
	return logger
}

func Debug(keyvals ...interface{}) {
	_ = level.Debug(current()).Log(keyvals...)
}

func Info(keyvals ...interface{}) {
	_ = level.Info(current()).Log(keyvals...)
}

func Warn(keyvals ...interface{}) {
	_ = level.Warn(current()).Log(keyvals...)
}

func Error(keyvals ...interface{}) {
	_ = level.Error(current()).Log(keyvals...)
}
