package engine

// Logger receives progress and diagnostics from both engines.
// output.Splog satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
