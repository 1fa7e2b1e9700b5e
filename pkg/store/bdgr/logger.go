package bdgr

import "go.uber.org/zap"

// badgerLogger routes badger's internal logs to zap
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.s.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.s.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.s.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.s.Debugf(format, args...)
}
