package snapshot

import "context"

// profile runs fn and, when profiling is enabled, logs how long it took.
// The result of fn is returned unchanged.
func (s *Store) profile(ctx context.Context, op string, fn func() error) error {
	if !s.profiling {
		return fn()
	}
	start := s.now()
	err := fn()
	s.logger.Info(ctx, op+" took", "op", op, "took", s.now().Sub(start), "ok", err == nil)
	return err
}
