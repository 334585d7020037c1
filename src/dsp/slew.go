package dsp

// SlewedDC moves linearly from its previous output to a new target over the
// slew time. The crossfade uses 7 fractional bits.
type SlewedDC struct {
	phasor  *Phasor
	lastVal int
	from    int
	to      int
}

// NewSlewedDC returns a generator at 0 with no slew.
func NewSlewedDC(cfg Config) *SlewedDC {
	return &SlewedDC{
		phasor: NewOneShot(cfg),
	}
}

// Set starts a ramp from the current output to x.
func (s *SlewedDC) Set(x int) {
	s.from = s.lastVal
	s.to = x
	s.phasor.Reset()
}

// SetSlew sets the ramp time. Below 1ms the output jumps straight to the target.
func (s *SlewedDC) SetSlew(ms int) {
	s.phasor.SetDuration(ms)
}

// Value is the last output.
func (s *SlewedDC) Value() int { return s.lastVal }

// Target ...
func (s *SlewedDC) Target() int { return s.to }

// Process ...
func (s *SlewedDC) Process() int {
	done := s.phasor.IsAtEnd()
	i := s.phasor.Process()
	if done || !s.phasor.Running() {
		s.lastVal = s.to
	} else {
		s.lastVal = ((s.from * (MaxLevel - i)) >> 7) + ((s.to * i) >> 7)
	}
	return s.lastVal
}
