package types

// Logger is the logging contract every middleware component writes
// through, satisfied by both the stdlib-backed and logrus-backed
// implementations in package definition.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	Panic(v ...interface{})
	Panicf(format string, v ...interface{})

	// ToggleDebug turns debug-level logging on or off and returns the new
	// state.
	ToggleDebug(value bool) bool
}
