package cas

import "time"

// SetClock replaces the time source used by NewID.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
