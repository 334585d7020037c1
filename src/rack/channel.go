package rack

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/jinjor/cvgen/src/dsp"
)

// ----- Mode ----- //

const (
	modeOff = iota
	modeOsc
	modeEnv
	modeTrig
	modeSlew
	modeGate
	modeSelect
)

var modeNames = []string{
	modeOff:    "off",
	modeOsc:    "osc",
	modeEnv:    "env",
	modeTrig:   "trig",
	modeSlew:   "slew",
	modeGate:   "gate",
	modeSelect: "select",
}

func modeFromString(s string) (int, error) {
	for i, name := range modeNames {
		if name == s {
			return i, nil
		}
	}
	return modeOff, fmt.Errorf("unknown mode %q", s)
}
func modeToString(mode int) string {
	if mode < 0 || mode >= len(modeNames) {
		return modeNames[modeOff]
	}
	return modeNames[mode]
}

// ----- Channel Params ----- //

type channelParams struct {
	mode      int
	freq      int // Hz
	duration  int // ms, used instead of freq when > 0
	wave      dsp.Wave
	width     int  // 0-255
	loop      bool // osc only
	attack    int  // ms
	decay     int  // ms
	trigWidth int  // ms
	amp       int  // 0-127
	slew      int  // ms
	div       int  // clock ticks per fire, 0 = not clocked
	start     bool // fires on clock start
	note      int  // MIDI note that fires the channel, -1 = none
	cc        int  // MIDI CC that sets the level, -1 = none
}

type channelJSON struct {
	Mode      string `json:"mode"`
	Freq      int    `json:"freq"`
	Duration  int    `json:"duration"`
	Wave      string `json:"wave"`
	Width     int    `json:"width"`
	Loop      bool   `json:"loop"`
	Attack    int    `json:"attack"`
	Decay     int    `json:"decay"`
	TrigWidth int    `json:"trigWidth"`
	Amp       int    `json:"amp"`
	Slew      int    `json:"slew"`
	Div       int    `json:"div"`
	Start     bool   `json:"start"`
	Note      int    `json:"note"`
	CC        int    `json:"cc"`
}

func newChannelParams(index int) *channelParams {
	return &channelParams{
		mode:      modeTrig,
		freq:      1,
		wave:      dsp.WaveSaw,
		width:     128,
		loop:      true,
		attack:    dsp.DefaultAttackMs,
		decay:     dsp.DefaultDecayMs,
		trigWidth: 4,
		amp:       dsp.MaxLevel,
		slew:      0,
		div:       defaultDivs[index],
		start:     defaultStarts[index],
		note:      60 + index,
		cc:        index,
	}
}

func (p *channelParams) toJSON() json.RawMessage {
	return toRawMessage(&channelJSON{
		Mode:      modeToString(p.mode),
		Freq:      p.freq,
		Duration:  p.duration,
		Wave:      p.wave.String(),
		Width:     p.width,
		Loop:      p.loop,
		Attack:    p.attack,
		Decay:     p.decay,
		TrigWidth: p.trigWidth,
		Amp:       p.amp,
		Slew:      p.slew,
		Div:       p.div,
		Start:     p.start,
		Note:      p.note,
		CC:        p.cc,
	})
}

func (p *channelParams) set(key string, value string) error {
	switch key {
	case "mode":
		mode, err := modeFromString(value)
		if err != nil {
			return err
		}
		p.mode = mode
	case "wave":
		wave, err := dsp.ParseWave(value)
		if err != nil {
			return err
		}
		p.wave = wave
	case "loop":
		p.loop = value == "true"
	case "start":
		p.start = value == "true"
	default:
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		return p.setInt(key, int(value))
	}
	return nil
}

func (p *channelParams) setInt(key string, value int) error {
	switch key {
	case "freq":
		p.freq = value
		p.duration = 0
	case "duration":
		p.duration = value
	case "width":
		p.width = clamp(value, 0, 255)
	case "attack":
		p.attack = value
	case "decay":
		p.decay = value
	case "trig_width":
		if value < 0 {
			value = 0
		}
		p.trigWidth = value
	case "amp":
		p.amp = clamp(value, 0, dsp.MaxLevel)
	case "slew":
		p.slew = value
	case "div":
		if value < 0 {
			return fmt.Errorf("invalid division %d", value)
		}
		p.div = value
	case "note":
		p.note = value
	case "cc":
		p.cc = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// ----- Channel ----- //

type channel struct {
	params *channelParams
	osc    *dsp.Osc
	env    *dsp.Env
	trig   *dsp.TrigGen
	slew   *dsp.SlewedDC
	gate   bool // gate mode: held by fire, dropped by release
	chosen bool // select mode: this channel is the selected one
	cfg    dsp.Config
}

func newChannel(cfg dsp.Config, index int) *channel {
	c := &channel{
		params: newChannelParams(index),
		osc:    dsp.NewOsc(cfg),
		env:    dsp.NewEnv(cfg),
		trig:   dsp.NewTrigGen(dsp.DefaultTrigWidth, dsp.DefaultTrigAmp),
		slew:   dsp.NewSlewedDC(cfg),
		cfg:    cfg,
	}
	c.applyParams()
	return c
}

func (c *channel) set(key string, value string) error {
	if err := c.params.set(key, value); err != nil {
		return err
	}
	c.applyParams()
	return nil
}

func (c *channel) applyParams() {
	p := c.params
	if p.duration > 0 {
		c.osc.SetDuration(p.duration)
	} else {
		c.osc.SetFreq(p.freq)
	}
	c.osc.SetWave(p.wave)
	c.osc.SetWidth(p.width)
	c.osc.SetLoop(p.loop)
	c.env.SetAttack(p.attack)
	c.env.SetDecay(p.decay)
	c.trig.SetWidth(c.cfg.MsToSamples(p.trigWidth))
	c.trig.SetAmp(p.amp)
	c.slew.SetSlew(p.slew)
}

// fire restarts whatever the channel is generating.
func (c *channel) fire() {
	switch c.params.mode {
	case modeOsc:
		c.osc.Reset()
	case modeEnv:
		c.env.Reset()
	case modeTrig:
		c.trig.Reset()
	case modeGate:
		c.gate = true
	}
}

func (c *channel) release() {
	c.gate = false
}

func (c *channel) setLevel(value int) {
	c.slew.Set(clamp(value, 0, dsp.MaxLevel))
}

func (c *channel) process() int {
	switch c.params.mode {
	case modeOsc:
		return c.osc.Process()
	case modeEnv:
		return c.env.Process()
	case modeTrig:
		return c.trig.Process()
	case modeSlew:
		return c.slew.Process()
	case modeGate:
		if c.gate {
			return c.params.amp
		}
		return 0
	case modeSelect:
		if c.chosen {
			return c.params.amp
		}
		return 0
	case modeOff:
		return 0
	default:
		log.Printf("unknown mode %d\n", c.params.mode)
		return 0
	}
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
