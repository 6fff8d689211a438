package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// RotatingFile configures one lumberjack rotated log file.
type RotatingFile struct {
	Name       string // file name inside LogFile.Path
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger.
// Each level stream gets its own rotated file.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access RotatingFile
	Error  RotatingFile
	Info   RotatingFile
	Trace  RotatingFile
	Warn   RotatingFile
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.

	// EnableAccessLogToConsole writes the fiber access log to stdout.
	// Does not overrule flag Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /healthz calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File based logging with rotation.
	File LogFile `toml:"file"`
}
