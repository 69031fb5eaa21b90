package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Set formatter based on environment
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	log.SetOutput(os.Stdout)

	return log
}

// WithMember creates an entry with league-member context
func WithMember(log *logrus.Logger, memberID string) *logrus.Entry {
	return log.WithField("member_id", memberID)
}

// WithSession creates an entry with draft-session context
func WithSession(log *logrus.Logger, sessionID string) *logrus.Entry {
	return log.WithField("session_id", sessionID)
}

// WithDraftContext creates an entry with full draft context
func WithDraftContext(log *logrus.Logger, sessionID string, pickNumber int) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"pick_number": pickNumber,
	})
}
