package dsp

// ----- Envelope Stage ----- //

// EnvStage is the part of the envelope that the next Process call produces.
type EnvStage int

const (
	EnvAttack EnvStage = iota
	EnvDecay
	EnvIdle
)

var envStageNames = []string{
	EnvAttack: "attack",
	EnvDecay:  "decay",
	EnvIdle:   "idle",
}

func (s EnvStage) String() string {
	if s < 0 || int(s) >= len(envStageNames) {
		return "unknown"
	}
	return envStageNames[s]
}

// ----- Envelope ----- //

/*
  127 +     x
      |    / \_
      |   /    \__
      |  /        \___
    0 +-x-------------x---- - -
      |a |    d        |idle
*/

const (
	DefaultAttackMs = 5
	DefaultDecayMs  = 150
)

// Env is an attack/decay envelope made of two one-shot phasors. The decay
// only starts counting once the attack has finished.
type Env struct {
	attack *Phasor
	decay  *Phasor
}

// NewEnv returns an envelope with the default times. It starts in the attack stage.
func NewEnv(cfg Config) *Env {
	e := &Env{
		attack: NewOneShot(cfg),
		decay:  NewOneShot(cfg),
	}
	e.attack.SetDuration(DefaultAttackMs)
	e.decay.SetDuration(DefaultDecayMs)
	return e
}

// SetAttack ...
func (e *Env) SetAttack(ms int) { e.attack.SetDuration(ms) }

// SetDecay ...
func (e *Env) SetDecay(ms int) { e.decay.SetDuration(ms) }

// Reset restarts from the attack stage.
func (e *Env) Reset() {
	e.attack.Reset()
	e.decay.Reset()
}

// Stage ...
func (e *Env) Stage() EnvStage {
	if !e.attack.IsAtEnd() {
		return EnvAttack
	}
	if !e.decay.IsAtEnd() {
		return EnvDecay
	}
	return EnvIdle
}

// Process returns the envelope level (0-127) and advances by one sample.
func (e *Env) Process() int {
	attackOut := MaxLevel
	decayOut := MaxLevel
	if e.attack.IsAtEnd() {
		decayOut = MaxLevel - e.decay.Process()
	} else {
		attackOut = e.attack.Process()
	}
	if attackOut < decayOut {
		return attackOut
	}
	return decayOut
}
