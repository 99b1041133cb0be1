package repository

// Option applies a configuration option to the BadgerStore.
type Option func(*BadgerStore)

// WithPath sets the on-disk directory for the store.
func WithPath(path string) Option {
	return func(s *BadgerStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithInMemory keeps the store entirely in memory. Intended for tests.
func WithInMemory() Option {
	return func(s *BadgerStore) {
		s.inMemory = true
	}
}
