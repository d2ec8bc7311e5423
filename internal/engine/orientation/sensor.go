package orientation

import "sync/atomic"

// Sensor holds the latest angles reported by a remote device.
// Store and Load may be called from different goroutines.
type Sensor struct {
	latest  atomic.Pointer[Angles]
	updates atomic.Uint64
}

// Store publishes a new reading. Beta and Gamma are clamped.
func (s *Sensor) Store(a Angles) {
	a = a.Clamped()
	s.latest.Store(&a)
	s.updates.Add(1)
}

// Load returns the most recent reading and whether one has arrived yet.
// When the feed stops, the last reading is returned indefinitely.
func (s *Sensor) Load() (Angles, bool) {
	p := s.latest.Load()
	if p == nil {
		return Angles{}, false
	}
	return *p, true
}

// Updates returns the number of readings stored so far.
// Callers compare it across ticks to detect fresh data.
func (s *Sensor) Updates() uint64 {
	return s.updates.Load()
}
