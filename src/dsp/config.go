// Package dsp provides fixed-point generators for a control-voltage and trigger
// module. Every generator is advanced by calling Process once per sample tick.
package dsp

const (
	// SampleRate is the default output rate in Hz.
	SampleRate = 40000
	// PhaseMax is the largest phase an accumulator can hold.
	PhaseMax = 0x7FFFFFFF
	// MaxLevel is the top of the 7-bit output range shared by all generators.
	MaxLevel = 127
)

// Config holds the values derived from the sample rate. It is computed once and
// passed to every generator constructor.
type Config struct {
	SampleRate  uint32
	PhaseMax    uint32
	SampleDelta uint32 // phase increment for 1 Hz
}

// DefaultConfig runs at SampleRate.
var DefaultConfig = NewConfig(SampleRate)

// NewConfig ...
func NewConfig(sampleRate uint32) Config {
	if sampleRate == 0 {
		sampleRate = SampleRate
	}
	return Config{
		SampleRate:  sampleRate,
		PhaseMax:    PhaseMax,
		SampleDelta: PhaseMax / sampleRate,
	}
}

// MsToSamples converts a duration in milliseconds to a whole number of samples.
func (c Config) MsToSamples(ms int) int {
	if ms < 0 {
		return 0
	}
	return int(uint64(ms) * uint64(c.SampleRate) / 1000)
}
