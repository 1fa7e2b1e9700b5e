package bdgr

import "go.uber.org/zap"

// Option configures the badger store
type Option func(*badgerStore)

// InMemory keeps the database in memory only. The base directory is ignored.
func InMemory(enabled bool) Option {
	return func(s *badgerStore) {
		s.inMemory = enabled
	}
}

// Logger injects a logger, also used for the internal badger logs
func Logger(l *zap.Logger) Option {
	return func(s *badgerStore) {
		if l != nil {
			s.l = l
		}
	}
}

// SyncWrites makes every write durable before returning
func SyncWrites(enabled bool) Option {
	return func(s *badgerStore) {
		s.syncWrites = enabled
	}
}
