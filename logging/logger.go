// Package logging wraps logrus the way the rideshare-platform's
// shared/logger package does: structured fields, an environment-aware
// formatter, and a handful of named helpers for the log entries this
// repo actually emits, instead of callers reaching for logrus directly.
package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a *logrus.Entry so fields attached by WithComponent and
// friends stick to every subsequent line, matching the rideshare-platform
// shared/logger.Logger pattern. The embedding keeps the full logrus
// method set (WithError, WithFields, Info, Fatal, ...) reachable.
type Logger struct {
	*logrus.Entry
}

// Fields is an alias for logrus.Fields so callers never import logrus
// directly.
type Fields = logrus.Fields

// New builds a Logger configured for the given level and environment:
// JSON output in production, colored text otherwise.
func New(level, environment string) *Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			ForceColors:     true,
		})
	}

	return &Logger{Entry: logrus.NewEntry(log)}
}

// NewNop returns a Logger that discards everything, used as the default
// when sim.NewManager is called without one (tests, library embedding).
func NewNop() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{Entry: logrus.NewEntry(log)}
}

// WithComponent tags every subsequent entry with which subsystem logged
// it (trip_manager, scheduler, transit, ...).
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", component)}
}

// WithTrip tags an entry with the trip and person it concerns, the two
// fields almost every Trip Manager log line needs.
func (l *Logger) WithTrip(tripID, personID int) *logrus.Entry {
	return l.Entry.WithFields(Fields{"trip_id": tripID, "person_id": personID})
}

// LogBusinessEvent records a trip-lifecycle event (finish, cancel, phase
// start), mirroring the rideshare-platform's LogBusinessEvent helper.
func (l *Logger) LogBusinessEvent(event string, tripID int, fields Fields) {
	merged := Fields{"trip_id": tripID, "type": "trip_event"}
	for k, v := range fields {
		merged[k] = v
	}
	l.Entry.WithFields(merged).Info(event)
}

// LogAlert records an alert at warning level; the Trip Manager calls it
// when an abandoned vehicle cannot be warped to a free spot.
func (l *Logger) LogAlert(message string, fields Fields) {
	l.Entry.WithFields(fields).Warn(message)
}
