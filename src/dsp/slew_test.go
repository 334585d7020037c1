package dsp

import "testing"

func TestSlewedDCNoSlew(t *testing.T) {
	s := NewSlewedDC(DefaultConfig)
	s.Set(100)
	s.SetSlew(0)
	expectEqual(t, s.Process(), 100)
	expectEqual(t, s.Value(), 100)

	s.Set(-20)
	expectEqual(t, s.Process(), -20)
}

func TestSlewedDCRampUp(t *testing.T) {
	s := NewSlewedDC(DefaultConfig)
	s.SetSlew(10)
	s.Set(0)
	s.Set(100)
	n := samplesToEnd(s.phasor.Delta()) // 401
	out := collect(s.Process, n+200)
	expectEqual(t, out[0], 0)
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("ramp fell at sample %d (%d < %d)", i, out[i], out[i-1])
		}
	}
	if out[n-1] >= 100 {
		t.Errorf("ramp finished early: %d", out[n-1])
	}
	for i := n; i < len(out); i++ {
		if out[i] != 100 {
			t.Fatalf("sample %d: expected 100, but got: %d", i, out[i])
		}
	}
}

func TestSlewedDCRampDown(t *testing.T) {
	s := NewSlewedDC(DefaultConfig)
	s.Set(127)
	s.Process()
	s.SetSlew(5)
	s.Set(0)
	out := collect(s.Process, 300)
	for i := 1; i < len(out); i++ {
		if out[i] > out[i-1] {
			t.Fatalf("ramp rose at sample %d", i)
		}
	}
	expectEqual(t, out[len(out)-1], 0)
}

func TestSlewedDCRetargetIsContinuous(t *testing.T) {
	s := NewSlewedDC(DefaultConfig)
	s.SetSlew(10)
	s.Set(120)
	collect(s.Process, 200)
	last := s.Value()
	if last <= 0 || last >= 120 {
		t.Fatalf("expected to be mid-ramp, but got: %d", last)
	}
	s.Set(10)
	v := s.Process()
	if d := v - last; d > 1 || d < -1 {
		t.Errorf("jumped from %d to %d", last, v)
	}
	expectEqual(t, s.Target(), 10)
}
