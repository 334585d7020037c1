package dsp

import "testing"

func TestEnvShape(t *testing.T) {
	e := NewEnv(DefaultConfig)
	e.Reset()
	expectEqual(t, e.Stage(), EnvAttack)

	attack := collect(e.Process, 201)
	expectInRange(t, attack, 0, 127)
	expectEqual(t, attack[0], 0)
	for i := 1; i < len(attack); i++ {
		if attack[i] < attack[i-1] {
			t.Fatalf("attack fell at sample %d", i)
		}
	}
	expectEqual(t, e.Stage(), EnvDecay)

	decay := collect(e.Process, 6001)
	expectInRange(t, decay, 0, 127)
	expectEqual(t, decay[0], 127)
	for i := 1; i < len(decay); i++ {
		if decay[i] > decay[i-1] {
			t.Fatalf("decay rose at sample %d", i)
		}
	}
	expectEqual(t, e.Stage(), EnvIdle)

	for i, v := range collect(e.Process, 5000) {
		if v != 0 {
			t.Fatalf("idle envelope returned %d at sample %d", v, i)
		}
	}
	expectEqual(t, e.Stage(), EnvIdle)
}

func TestEnvDecayWaitsForAttack(t *testing.T) {
	e := NewEnv(DefaultConfig)
	collect(e.Process, 150)
	expectEqual(t, e.decay.Phase(), uint32(0))
	collect(e.Process, 51)
	expectEqual(t, e.decay.Phase(), uint32(0))
	e.Process()
	expectEqual(t, e.decay.Phase(), e.decay.Delta())
}

func TestEnvReset(t *testing.T) {
	e := NewEnv(DefaultConfig)
	collect(e.Process, 3000)
	expectEqual(t, e.Stage(), EnvDecay)
	e.Reset()
	expectEqual(t, e.Stage(), EnvAttack)
	expectEqual(t, e.Process(), 0)

	collect(e.Process, 10000)
	expectEqual(t, e.Stage(), EnvIdle)
	e.Reset()
	expectEqual(t, e.Process(), 0)
	expectEqual(t, e.Stage(), EnvAttack)
}

func TestEnvTimes(t *testing.T) {
	e := NewEnv(DefaultConfig)
	e.SetAttack(1)
	e.SetDecay(10)
	collect(e.Process, 41)
	expectEqual(t, e.Stage(), EnvDecay)
	collect(e.Process, 401)
	expectEqual(t, e.Stage(), EnvIdle)
	expectEqual(t, e.Process(), 0)
}

func TestEnvStageString(t *testing.T) {
	expectEqual(t, EnvAttack.String(), "attack")
	expectEqual(t, EnvDecay.String(), "decay")
	expectEqual(t, EnvIdle.String(), "idle")
	expectEqual(t, EnvStage(3).String(), "unknown")
	expectEqual(t, EnvStage(-1).String(), "unknown")
}
