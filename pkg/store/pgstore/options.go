package pgstore

import "go.uber.org/zap"

// Option configures the PostgreSQL store
type Option func(*pgStore)

// Logger injects a logger
func Logger(l *zap.Logger) Option {
	return func(s *pgStore) {
		if l != nil {
			s.l = l
		}
	}
}

// Schema places all tables in this schema, created if needed.
// The default is the search path of the connection.
func Schema(name string) Option {
	return func(s *pgStore) {
		s.schema = name
	}
}

// MaxOpenConns limits the size of the connection pool
func MaxOpenConns(n int) Option {
	return func(s *pgStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}
