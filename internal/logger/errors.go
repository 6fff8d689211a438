package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnknownLogLevel is returned if Log.LogLevel is no zerolog level.
	ErrUnknownLogLevel = errors.New("config Log.LogLevel is not a known level")

	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// ErrorHandler reports events zerolog failed to write. Logging is down at that point, stderr is all that is left.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "mobile-app-connector: log event dropped: %v\n", err)
}
