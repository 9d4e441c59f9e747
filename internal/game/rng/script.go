package rng

// Script is a deterministic Source that replays queued values. It is used by
// tests to force specific outcomes. IntN results are reduced modulo n and
// Shuffle leaves the order untouched. Exhausted queues return zero.
type Script struct {
	Ints   []int
	Floats []float64
}

// IntN returns the next queued int modulo n.
func (s *Script) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Float64 returns the next queued float.
func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// Shuffle is a no-op.
func (s *Script) Shuffle(int, func(i, j int)) {}
