package rack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClockWraps(t *testing.T) {
	c := newClock()
	for i := 0; i < clockCycle; i++ {
		expectEqual(t, c.step(), i)
	}
	expectEqual(t, c.step(), 0)
	expectEqual(t, c.step(), 1)
}

func TestClockStartStop(t *testing.T) {
	c := newClock()
	c.step()
	c.step()
	c.stop()
	expectEqual(t, c.step(), -1)
	c.start()
	expectEqual(t, c.step(), 0)
}

func TestDivides(t *testing.T) {
	tests := []struct {
		div  int
		tick int
		want bool
	}{
		{0, 0, false},
		{1, 5, true},
		{6, 12, true},
		{6, 13, false},
		{384, 0, true},
		{384, 96, false},
		{24, -1, false},
	}
	for _, tt := range tests {
		if got := divides(tt.div, tt.tick); got != tt.want {
			t.Errorf("divides(%d, %d) = %v, want %v", tt.div, tt.tick, got, tt.want)
		}
	}
}

func TestCVToCC(t *testing.T) {
	tests := []struct {
		raw  uint16
		want int
	}{
		{0, 0},
		{5900, 0},
		{35100, 63},
		{64300, 127},
		{65535, 127},
	}
	for _, tt := range tests {
		expectEqual(t, CVToCC(tt.raw), tt.want)
	}
}

func TestCVFollower(t *testing.T) {
	f := &cvFollower{}
	_, changed := f.update(200)
	expectEqual(t, changed, false)
	cc, changed := f.update(40000)
	expectEqual(t, changed, true)
	expectEqual(t, cc, CVToCC(40000))
	_, changed = f.update(40100)
	expectEqual(t, changed, false)
	// moved, but lands on the same controller value
	_, changed = f.update(40300)
	expectEqual(t, changed, false)
	_, changed = f.update(50000)
	expectEqual(t, changed, true)
}

func TestBinaryPreset(t *testing.T) {
	p := clockPresets["binary"]
	c := newClock()
	c.step()
	c.setCycle(p.cycle)
	counts := make([]int, numChannels)
	for i := 0; i < 2*p.cycle; i++ {
		tick := c.step()
		for ch, div := range p.divs {
			want := tick%(1<<(ch+1)) == 0
			if got := divides(div, tick); got != want {
				t.Fatalf("tick %d, channel %d: expected %v, but got: %v", tick, ch, want, got)
			}
			if want {
				counts[ch]++
			}
		}
	}
	if diff := cmp.Diff([]int{256, 128, 64, 32, 16, 8, 4, 2}, counts); diff != "" {
		t.Errorf("fires per channel (-want +got):\n%s", diff)
	}
}

func TestSelectGate(t *testing.T) {
	expectEqual(t, SelectGate(0), 0)
	expectEqual(t, SelectGate(4095), 0)
	expectEqual(t, SelectGate(4096), 1)
	expectEqual(t, SelectGate(32767), 7)
	expectEqual(t, SelectGate(32768), 0)
	expectEqual(t, SelectGate(65535), 7)
}
