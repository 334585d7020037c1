package rack

// ----- CV Input ----- //

// usable span of the 16-bit ADC reading
const (
	cvMin       = 5900
	cvMax       = 64300
	cvThreshold = 256
)

// CVToCC scales a raw 16-bit CV reading to a 7-bit controller value.
func CVToCC(raw uint16) int {
	v := int(raw)
	if v < cvMin {
		v = cvMin
	}
	if v > cvMax {
		v = cvMax
	}
	return (v - cvMin) * 127 / (cvMax - cvMin)
}

// SelectGate picks the single output a raw CV reading selects. Each 1/16 of the
// range is one output, so channels 0-7 repeat over the lower and upper halves.
func SelectGate(raw uint16) int {
	return (int(raw>>12) - 8 + numChannels) % numChannels
}

// cvFollower ignores readings that moved less than cvThreshold since the last
// accepted one, and controller values that did not change.
type cvFollower struct {
	old    int
	lastCC int
}

func (f *cvFollower) update(raw uint16) (int, bool) {
	d := int(raw) - f.old
	if d < 0 {
		d = -d
	}
	if d <= cvThreshold {
		return f.lastCC, false
	}
	f.old = int(raw)
	cc := CVToCC(raw)
	if cc == f.lastCC {
		return cc, false
	}
	f.lastCC = cc
	return cc, true
}
