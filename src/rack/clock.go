package rack

// ----- Clock Divider ----- //

const (
	ppqn       = 24 // MIDI timing clocks per quarter note
	clockCycle = 16 * ppqn
)

// one fire per clock, 16ths, 8ths, quarters, bars and every 4 bars
var defaultDivs = [numChannels]int{0, 0, 1, 6, 12, 24, 96, clockCycle}

// the first two outputs answer MIDI Start
var defaultStarts = [numChannels]bool{true, true}

type clockPreset struct {
	divs   [numChannels]int
	starts [numChannels]bool
	cycle  int
}

// binary counts like a ripple counter: output n fires every 2^(n+1) ticks.
func binaryPreset() clockPreset {
	p := clockPreset{cycle: 1 << numChannels}
	for i := range p.divs {
		p.divs[i] = 2 << i
	}
	return p
}

var clockPresets = map[string]clockPreset{
	"midi":   {divs: defaultDivs, starts: defaultStarts, cycle: clockCycle},
	"binary": binaryPreset(),
}

type clock struct {
	ticks   int
	cycle   int
	running bool
}

func newClock() *clock {
	return &clock{cycle: clockCycle, running: true}
}

func (c *clock) setCycle(cycle int) {
	c.cycle = cycle
	c.ticks = 0
}

func (c *clock) start() {
	c.ticks = 0
	c.running = true
}

func (c *clock) stop() {
	c.running = false
}

// step returns the tick to act on, or -1 while stopped.
func (c *clock) step() int {
	if !c.running {
		return -1
	}
	t := c.ticks
	c.ticks++
	if c.ticks >= c.cycle {
		c.ticks = 0
	}
	return t
}

func divides(div int, tick int) bool {
	return div > 0 && tick >= 0 && tick%div == 0
}
