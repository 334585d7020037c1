package dsp

const (
	DefaultTrigWidth = 160 // samples, 4ms at 40kHz
	DefaultTrigAmp   = MaxLevel
)

// TrigGen emits a pulse of amp for exactly width samples after each Reset.
type TrigGen struct {
	samplesSinceFired int
	width             int
	amp               int
}

// NewTrigGen returns a generator that is idle until the first Reset.
func NewTrigGen(width int, amp int) *TrigGen {
	t := &TrigGen{}
	t.SetWidth(width)
	t.SetAmp(amp)
	return t
}

// SetWidth sets the pulse length in samples. An idle generator stays idle.
func (t *TrigGen) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	idle := t.samplesSinceFired >= t.width
	t.width = width
	if idle {
		t.samplesSinceFired = width
	}
}

// SetAmp sets the pulse level, clamped to 0-127.
func (t *TrigGen) SetAmp(amp int) {
	if amp < 0 {
		amp = 0
	}
	if amp > MaxLevel {
		amp = MaxLevel
	}
	t.amp = amp
}

// Width ...
func (t *TrigGen) Width() int { return t.width }

// Amp ...
func (t *TrigGen) Amp() int { return t.amp }

// Reset fires the pulse. The next Process call is its first sample.
func (t *TrigGen) Reset() {
	t.samplesSinceFired = -1
}

// Firing reports whether the next Process call is part of the pulse.
func (t *TrigGen) Firing() bool {
	return t.samplesSinceFired+1 < t.width
}

// Process returns amp during the pulse and 0 otherwise.
func (t *TrigGen) Process() int {
	// the counter stops at width so a long idle period cannot overflow it
	if t.samplesSinceFired < t.width {
		t.samplesSinceFired++
	}
	if t.samplesSinceFired < t.width {
		return t.amp
	}
	return 0
}
