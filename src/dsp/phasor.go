package dsp

import "math"

const (
	phaseBits  = 31
	levelShift = phaseBits - 7
)

/*
  loop=true                loop=false
  max +    /|    /|        max +        ,------
      |   / |   / |            |      _/
      |  /  |  /  |            |    _/
      | /   | /   |            |  _/
    0 +/----+/----+--        0 +_/----+--------
       |1/f |                    |ms  |
*/

// Phasor is a fixed-point phase accumulator. Looping phasors wrap at PhaseMax,
// one-shot phasors stop there and keep returning the end value.
type Phasor struct {
	cfg   Config
	phase uint32
	delta uint32 // 0 means stopped
	loop  bool
}

// NewPhasor returns a stopped looping phasor at phase 0.
func NewPhasor(cfg Config) *Phasor {
	if cfg.PhaseMax == 0 || cfg.SampleDelta == 0 {
		cfg = NewConfig(cfg.SampleRate)
	}
	return &Phasor{
		cfg:  cfg,
		loop: true,
	}
}

// NewOneShot returns a stopped phasor that clamps at PhaseMax.
func NewOneShot(cfg Config) *Phasor {
	p := NewPhasor(cfg)
	p.loop = false
	return p
}

// SetFreq sets the rate in Hz. freq must not be negative; 0 (or less) stops the phasor.
func (p *Phasor) SetFreq(freq int) {
	p.delta = freqToDelta(p.cfg, freq)
}

// SetDuration sets the rate so that one pass from 0 to PhaseMax takes ms milliseconds.
// Anything below 1 ms stops the phasor.
func (p *Phasor) SetDuration(ms int) {
	p.delta = durationToDelta(p.cfg, ms)
}

// SetLoop selects wrapping (true) or clamping at the end (false).
func (p *Phasor) SetLoop(loop bool) {
	p.loop = loop
}

// SetPhase moves the accumulator. Values above PhaseMax are clamped.
func (p *Phasor) SetPhase(phase uint32) {
	if phase > p.cfg.PhaseMax {
		phase = p.cfg.PhaseMax
	}
	p.phase = phase
}

// Reset rewinds to phase 0 and keeps the rate.
func (p *Phasor) Reset() {
	p.phase = 0
}

// Running reports whether the phasor advances at all.
func (p *Phasor) Running() bool {
	return p.delta > 0
}

// IsAtEnd reports whether a one-shot has completed.
func (p *Phasor) IsAtEnd() bool {
	return p.phase >= p.cfg.PhaseMax
}

// Phase ...
func (p *Phasor) Phase() uint32 { return p.phase }

// Delta ...
func (p *Phasor) Delta() uint32 { return p.delta }

// Loop ...
func (p *Phasor) Loop() bool { return p.loop }

// Process returns the current phase as 0-127 and then advances by one sample.
func (p *Phasor) Process() int {
	return int(p.advance() >> levelShift)
}

// advance returns the phase before the increment. Overflow is wrapped as many times
// as needed, so even a delta above PhaseMax leaves the phase in range.
func (p *Phasor) advance() uint32 {
	out := p.phase
	end := uint64(p.cfg.PhaseMax)
	next := uint64(p.phase) + uint64(p.delta)
	if next >= end {
		if p.loop {
			for next >= end {
				next -= end
			}
		} else {
			next = end
		}
	}
	p.phase = uint32(next)
	return out
}

func freqToDelta(cfg Config, freq int) uint32 {
	if freq <= 0 {
		return 0
	}
	d := uint64(cfg.SampleDelta) * uint64(freq)
	if d > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(d)
}

func durationToDelta(cfg Config, ms int) uint32 {
	if ms < 1 {
		return 0
	}
	return uint32(uint64(cfg.SampleDelta) * 1000 / uint64(ms))
}
