package dsp

import "fmt"

// ----- Wave ----- //

// Wave selects the shape an Osc derives from its ramp.
type Wave int

const (
	WaveSaw Wave = iota
	WaveTriangle
	WavePulse
)

var waveNames = []string{
	WaveSaw:      "saw",
	WaveTriangle: "triangle",
	WavePulse:    "pulse",
}

func (w Wave) String() string {
	if w < 0 || int(w) >= len(waveNames) {
		return waveNames[WaveSaw]
	}
	return waveNames[w]
}

// ParseWave accepts a wave name or its number.
func ParseWave(s string) (Wave, error) {
	for i, name := range waveNames {
		if s == name || s == fmt.Sprint(i) {
			return Wave(i), nil
		}
	}
	return WaveSaw, fmt.Errorf("unknown wave %q", s)
}

// ----- OSC ----- //

const (
	oscShift     = phaseBits - 8
	defaultWidth = 128
)

// Osc shapes the ramp of its own phasor into a saw, triangle or pulse wave.
type Osc struct {
	phasor *Phasor
	wave   Wave
	width  int // 0-255
}

// NewOsc returns a stopped looping saw oscillator with a 50% pulse width.
func NewOsc(cfg Config) *Osc {
	return &Osc{
		phasor: NewPhasor(cfg),
		wave:   WaveSaw,
		width:  defaultWidth,
	}
}

// SetFreq ...
func (o *Osc) SetFreq(freq int) { o.phasor.SetFreq(freq) }

// SetDuration ...
func (o *Osc) SetDuration(ms int) { o.phasor.SetDuration(ms) }

// SetLoop ...
func (o *Osc) SetLoop(loop bool) { o.phasor.SetLoop(loop) }

// Reset ...
func (o *Osc) Reset() { o.phasor.Reset() }

// Running ...
func (o *Osc) Running() bool { return o.phasor.Running() }

// IsAtEnd ...
func (o *Osc) IsAtEnd() bool { return o.phasor.IsAtEnd() }

// Wave ...
func (o *Osc) Wave() Wave { return o.wave }

// Width ...
func (o *Osc) Width() int { return o.width }

// SetWave ...
func (o *Osc) SetWave(w Wave) {
	o.wave = w
}

// SetWidth sets the pulse threshold, clamped to 0-255.
func (o *Osc) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	if width > 255 {
		width = 255
	}
	o.width = width
}

// Process returns the shaped value (0-127) and advances by one sample.
func (o *Osc) Process() int {
	return shape(o.wave, o.width, int(o.phasor.advance()>>oscShift))
}

// shape maps the 8-bit ramp value to the 7-bit output.
func shape(w Wave, width int, out int) int {
	switch w {
	case WavePulse:
		if out < width {
			return MaxLevel
		}
		return 0
	case WaveTriangle:
		out -= 128
		if out < 0 {
			out = -out
		}
		if out > MaxLevel {
			out = MaxLevel
		}
		return out
	default:
		return out >> 1
	}
}
