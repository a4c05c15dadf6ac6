package repository

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithCompetition tags newly created matches with a competition code.
func WithCompetition(code string) Option {
	return func(s *GormStore) {
		if code != "" {
			s.competition = code
		}
	}
}
