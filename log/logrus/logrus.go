// Package logrus adapts a *logrus.Entry to jsondefaults.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/jsondefaults"
)

var _ jsondefaults.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l with a component field.
func New(l *logrus.Logger, component string) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", component)}
}

func (l LogrusLogger) Debug(msg string, f jsondefaults.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f jsondefaults.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f jsondefaults.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f jsondefaults.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
