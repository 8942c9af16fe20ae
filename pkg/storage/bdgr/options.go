package bdgr

import (
	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Option for the badger store
type Option func(*Store)

// InMemory runs the database without persisting anything on disk
func InMemory(enabled bool) Option {
	return func(s *Store) {
		s.inMemory = enabled
	}
}

// Logger for the store and the badger database
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

var _ badger.Logger = zapLogger{}

// zapLogger relays badger logs to zap. Badger info logs are verbose and are demoted to debug.
type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) Errorf(format string, args ...interface{}) {
	z.l.Errorf(format, args...)
}

func (z zapLogger) Warningf(format string, args ...interface{}) {
	z.l.Warnf(format, args...)
}

func (z zapLogger) Infof(format string, args ...interface{}) {
	z.l.Debugf(format, args...)
}

func (z zapLogger) Debugf(format string, args ...interface{}) {
	z.l.Debugf(format, args...)
}
