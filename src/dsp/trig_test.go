package dsp

import "testing"

func TestTrigGenPulse(t *testing.T) {
	g := NewTrigGen(DefaultTrigWidth, DefaultTrigAmp)
	g.Reset()
	for i := 0; i < 160; i++ {
		if v := g.Process(); v != 127 {
			t.Fatalf("call %d: expected 127, but got: %d", i+1, v)
		}
	}
	expectEqual(t, g.Process(), 0)
	for i := 0; i < 100000; i++ {
		if v := g.Process(); v != 0 {
			t.Fatalf("pulse came back after %d idle samples", i)
		}
	}
}

func TestTrigGenStartsIdle(t *testing.T) {
	g := NewTrigGen(160, 127)
	expectEqual(t, g.Firing(), false)
	for i := 0; i < 500; i++ {
		expectEqual(t, g.Process(), 0)
	}
}

func TestTrigGenRetrigger(t *testing.T) {
	g := NewTrigGen(10, 100)
	g.Reset()
	collect(g.Process, 6)
	g.Reset()
	out := collect(g.Process, 12)
	for i := 0; i < 10; i++ {
		expectEqual(t, out[i], 100)
	}
	expectEqual(t, out[10], 0)
	expectEqual(t, out[11], 0)
}

func TestTrigGenFiring(t *testing.T) {
	g := NewTrigGen(2, 127)
	g.Reset()
	expectEqual(t, g.Firing(), true)
	g.Process()
	expectEqual(t, g.Firing(), true)
	g.Process()
	expectEqual(t, g.Firing(), false)
	expectEqual(t, g.Process(), 0)
}

func TestTrigGenLimits(t *testing.T) {
	g := NewTrigGen(0, 127)
	g.Reset()
	expectEqual(t, g.Process(), 0)

	g = NewTrigGen(-4, 300)
	expectEqual(t, g.Width(), 0)
	expectEqual(t, g.Amp(), 127)
	g.SetAmp(-1)
	expectEqual(t, g.Amp(), 0)
	g.SetWidth(3)
	g.SetAmp(64)
	g.Reset()
	expectEqual(t, g.Process(), 64)
}

func TestTrigGenWidthChangeWhileIdle(t *testing.T) {
	g := NewTrigGen(160, 127)
	g.Reset()
	collect(g.Process, 161+40000)
	g.SetWidth(400)
	expectEqual(t, g.Firing(), false)
	for i := 0; i < 1000; i++ {
		if v := g.Process(); v != 0 {
			t.Fatalf("sample %d: fired without Reset", i)
		}
	}
	g.Reset()
	out := collect(g.Process, 401)
	expectEqual(t, out[399], 127)
	expectEqual(t, out[400], 0)
}

func TestTrigGenWidthChangeWhileFiring(t *testing.T) {
	g := NewTrigGen(10, 127)
	g.Reset()
	collect(g.Process, 5)
	g.SetWidth(20)
	out := collect(g.Process, 16)
	expectEqual(t, out[14], 127)
	expectEqual(t, out[15], 0)

	g.Reset()
	collect(g.Process, 5)
	g.SetWidth(3)
	expectEqual(t, g.Process(), 0)
	expectEqual(t, g.Firing(), false)
}
