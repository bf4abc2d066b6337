package definition

import (
	"github.com/sirupsen/logrus"

	"github.com/Hery-R/projet-INFO901/pkg/middleware/types"
)

// LogrusLogger backs types.Logger with a structured logrus.Entry, so
// components can attach fields (process id, component name) that survive
// into whatever formatter/hook the host application configures on the
// underlying logrus.Logger.
type LogrusLogger struct {
	entry *logrus.Entry
}

var _ types.Logger = (*LogrusLogger)(nil)

// NewLogrusLogger builds a LogrusLogger over a fresh logrus.Logger tagged
// with the given component name.
func NewLogrusLogger(component string) *LogrusLogger {
	base := logrus.New()
	return &LogrusLogger{entry: base.WithField("component", component)}
}

// WithFields returns a LogrusLogger that additionally tags every line with
// the given fields, e.g. NewLogrusLogger("core").WithFields(logrus.Fields{"process": id}).
func (l *LogrusLogger) WithFields(fields logrus.Fields) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *LogrusLogger) Info(v ...interface{})                 { l.entry.Info(v...) }
func (l *LogrusLogger) Infof(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *LogrusLogger) Warn(v ...interface{})                  { l.entry.Warn(v...) }
func (l *LogrusLogger) Warnf(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *LogrusLogger) Error(v ...interface{})                 { l.entry.Error(v...) }
func (l *LogrusLogger) Errorf(format string, v ...interface{}) { l.entry.Errorf(format, v...) }

func (l *LogrusLogger) Debug(v ...interface{}) {
	if l.entry.Logger.IsLevelEnabled(logrus.DebugLevel) {
		l.entry.Debug(v...)
	}
}

func (l *LogrusLogger) Debugf(format string, v ...interface{}) {
	if l.entry.Logger.IsLevelEnabled(logrus.DebugLevel) {
		l.entry.Debugf(format, v...)
	}
}

func (l *LogrusLogger) Fatal(v ...interface{})                 { l.entry.Fatal(v...) }
func (l *LogrusLogger) Fatalf(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }
func (l *LogrusLogger) Panic(v ...interface{})                 { l.entry.Panic(v...) }
func (l *LogrusLogger) Panicf(format string, v ...interface{}) { l.entry.Panicf(format, v...) }

// ToggleDebug switches the underlying logrus.Logger's level between Debug
// and Info.
func (l *LogrusLogger) ToggleDebug(value bool) bool {
	if value {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return value
}
