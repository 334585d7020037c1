package rack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/cvgen/src/dsp"
)

const (
	numChannels     = 8
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample
const noMonitor = -1

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Events ----- //

type noteOn struct {
	note int
}
type noteOff struct {
	note int
}
type controlChange struct {
	number int
	value  int
}
type clockTick struct{}
type clockStart struct{}
type clockStop struct{}
type fire struct {
	ch int
}
type setLevel struct {
	ch    int
	value int
}
type selectGate struct {
	ch int
}

// ----- Changes ----- //

// Changes ...
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- State ----- //

type state struct {
	sync.Mutex
	cfg      dsp.Config
	events   [][]interface{} // length: samplesPerCycle * 2
	channels []*channel
	clock    *clock
	cv       *cvFollower
	monitor  int
	levels   []int
	lastRead float64
}

type stateJSON struct {
	Monitor    int               `json:"monitor"`
	ClockCycle int               `json:"clockCycle"`
	Channels   []json.RawMessage `json:"channels"`
}

func newState(cfg dsp.Config) *state {
	channels := make([]*channel, numChannels)
	for i := range channels {
		channels[i] = newChannel(cfg, i)
	}
	return &state{
		cfg:      cfg,
		events:   make([][]interface{}, samplesPerCycle*2),
		channels: channels,
		clock:    newClock(),
		cv:       &cvFollower{},
		monitor:  0,
		levels:   make([]int, numChannels),
	}
}

func (s *state) toJSON() json.RawMessage {
	channelJsons := make([]json.RawMessage, len(s.channels))
	for i, c := range s.channels {
		channelJsons[i] = c.params.toJSON()
	}
	return toRawMessage(&stateJSON{
		Monitor:    s.monitor,
		ClockCycle: s.clock.cycle,
		Channels:   channelJsons,
	})
}

func (s *state) apply(event interface{}) {
	switch e := event.(type) {
	case *noteOn:
		for _, c := range s.channels {
			if c.params.note == e.note {
				c.fire()
			}
		}
	case *noteOff:
		for _, c := range s.channels {
			if c.params.note == e.note {
				c.release()
			}
		}
	case *controlChange:
		for _, c := range s.channels {
			if c.params.cc == e.number {
				c.setLevel(e.value)
			}
		}
	case *clockTick:
		tick := s.clock.step()
		for _, c := range s.channels {
			if divides(c.params.div, tick) {
				c.fire()
			}
		}
	case *clockStart:
		s.clock.start()
		for _, c := range s.channels {
			if c.params.start {
				c.fire()
			}
		}
	case *clockStop:
		s.clock.stop()
		for _, c := range s.channels {
			c.release()
		}
	case *fire:
		s.channels[e.ch].fire()
	case *setLevel:
		s.channels[e.ch].setLevel(e.value)
	case *selectGate:
		for i, c := range s.channels {
			c.chosen = i == e.ch
		}
	default:
		log.Printf("unknown event %T\n", event)
	}
}

// tick applies the events due at this sample and advances every channel once.
func (s *state) tick(events []interface{}) {
	for _, e := range events {
		s.apply(e)
	}
	for i, c := range s.channels {
		s.levels[i] = c.process()
	}
}

func (s *state) addEvent(event interface{}) {
	index := 0
	if s.lastRead > 0 {
		offset := now() - s.lastRead
		index = int(offset * float64(s.cfg.SampleRate))
	}
	if index < 0 {
		log.Println("[WARN] index < 0")
		index = 0
	}
	if index >= len(s.events) {
		log.Println("[WARN] index >= event length")
		index = len(s.events) - 1
	}
	s.events[index] = append(s.events[index], event)
}

// ----- Rack ----- //

// Rack drives eight output channels at a fixed sample rate.
type Rack struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	state      *state
	Changes    *Changes
}

var _ io.Reader = (*Rack)(nil)

// NewRack creates a rack. With monitor enabled the monitored channel is played on
// the default audio device.
func NewRack(cfg dsp.Config, monitor bool) (*Rack, error) {
	var otoContext *oto.Context
	if monitor {
		c, err := oto.NewContext(int(cfg.SampleRate), channelNum, bitDepthInBytes, bufferSizeInBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to open audio device: %w", err)
		}
		otoContext = c
	}
	commandCh := make(chan []string, 256)
	rack := &Rack{
		ctx:        context.Background(),
		otoContext: otoContext,
		CommandCh:  commandCh,
		state:      newState(cfg),
		Changes: &Changes{
			dict: make(map[string]struct{}),
		},
	}
	go processCommands(rack, commandCh)
	return rack, nil
}

func processCommands(rack *Rack, commandCh <-chan []string) {
	for command := range commandCh {
		if err := rack.update(command); err != nil {
			log.Printf("failed to run %v: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

// Read renders len(buf)/4 samples of the monitored channel as 16-bit stereo PCM.
func (r *Rack) Read(buf []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		r.state.Lock()
		defer r.state.Unlock()
		timestamp := now()
		bufSamples := len(buf) / bytesPerSample
		for i := 0; i < bufSamples; i++ {
			var events []interface{}
			if i < len(r.state.events) {
				events = r.state.events[i]
			}
			r.state.tick(events)
			level := 0
			if r.state.monitor != noMonitor {
				level = r.state.levels[r.state.monitor]
			}
			writeSample(buf, i, level)
		}
		r.state.lastRead = timestamp
		shiftEvents(r.state.events, bufSamples)
		return bufSamples * bytesPerSample, nil
	}
}

// shiftEvents drops the first n slots and moves the rest to the front.
func shiftEvents(events [][]interface{}, n int) {
	if n > len(events) {
		n = len(events)
	}
	copy(events, events[n:])
	for i := len(events) - n; i < len(events); i++ {
		events[i] = nil
	}
}

// writeSample maps a 0-127 level to a full-scale bipolar value on every channel.
func writeSample(buf []byte, i int, level int) {
	value := float64(level*2-dsp.MaxLevel) / dsp.MaxLevel
	for ch := 0; ch < channelNum; ch++ {
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// Tick applies every pending event and advances all channels by one sample.
// It is the entry point for drivers that poll the rack from a timer.
func (r *Rack) Tick() []int {
	r.state.Lock()
	defer r.state.Unlock()
	var events []interface{}
	for i, slot := range r.state.events {
		events = append(events, slot...)
		r.state.events[i] = nil
	}
	r.state.tick(events)
	levels := make([]int, len(r.state.levels))
	copy(levels, r.state.levels)
	return levels
}

// Levels returns the output of every channel at the last tick.
func (r *Rack) Levels() []int {
	r.state.Lock()
	defer r.state.Unlock()
	levels := make([]int, len(r.state.levels))
	copy(levels, r.state.levels)
	return levels
}

// ToJSON ...
func (r *Rack) ToJSON() []byte {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.toJSON()
}

func parseChannel(s string) (int, error) {
	ch, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if ch < 0 || ch >= numChannels {
		return 0, fmt.Errorf("channel %d out of range", ch)
	}
	return ch, nil
}

func expectArgs(command []string, n int) error {
	if len(command) != n+1 {
		return fmt.Errorf("%s expects %d arguments, got %v", command[0], n, command[1:])
	}
	return nil
}

func (r *Rack) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	r.state.Lock()
	defer r.state.Unlock()

	switch command[0] {
	case "set":
		if err := expectArgs(command, 3); err != nil {
			return err
		}
		ch, err := parseChannel(command[1])
		if err != nil {
			return err
		}
		if err := r.state.channels[ch].set(command[2], command[3]); err != nil {
			return err
		}
		r.Changes.Add("data")
	case "fire":
		if err := expectArgs(command, 1); err != nil {
			return err
		}
		ch, err := parseChannel(command[1])
		if err != nil {
			return err
		}
		r.state.addEvent(&fire{ch: ch})
	case "level":
		if err := expectArgs(command, 2); err != nil {
			return err
		}
		ch, err := parseChannel(command[1])
		if err != nil {
			return err
		}
		value, err := strconv.Atoi(command[2])
		if err != nil {
			return err
		}
		r.state.addEvent(&setLevel{ch: ch, value: value})
	case "cv":
		if err := expectArgs(command, 1); err != nil {
			return err
		}
		raw, err := strconv.ParseUint(command[1], 10, 16)
		if err != nil {
			return err
		}
		if cc, changed := r.state.cv.update(uint16(raw)); changed {
			r.state.addEvent(&controlChange{number: 1, value: cc})
		}
		r.state.addEvent(&selectGate{ch: SelectGate(uint16(raw))})
	case "clock":
		r.state.addEvent(&clockTick{})
	case "start":
		r.state.addEvent(&clockStart{})
	case "stop":
		r.state.addEvent(&clockStop{})
	case "monitor":
		if err := expectArgs(command, 1); err != nil {
			return err
		}
		if command[1] == "off" {
			r.state.monitor = noMonitor
		} else {
			ch, err := parseChannel(command[1])
			if err != nil {
				return err
			}
			r.state.monitor = ch
		}
		r.Changes.Add("data")
	case "preset":
		if err := expectArgs(command, 1); err != nil {
			return err
		}
		preset, ok := clockPresets[command[1]]
		if !ok {
			return fmt.Errorf("unknown preset %q", command[1])
		}
		for i, c := range r.state.channels {
			c.params.div = preset.divs[i]
			c.params.start = preset.starts[i]
		}
		r.state.clock.setCycle(preset.cycle)
		r.Changes.Add("data")
	case "dump":
		r.Changes.Add("data")
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// Close ...
func (r *Rack) Close() error {
	log.Println("Closing Rack...")
	close(r.CommandCh)
	if r.otoContext == nil {
		return nil
	}
	return r.otoContext.Close()
}

// Start renders until ctx is cancelled, either into the audio device or, without a
// monitor, paced by a ticker.
func (r *Rack) Start(ctx context.Context) error {
	r.ctx = ctx
	if r.otoContext == nil {
		return r.runHeadless(ctx)
	}
	p := r.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()

	// block until cancel() called
	if _, err := io.CopyBuffer(p, r, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

func (r *Rack) runHeadless(ctx context.Context) error {
	period := time.Duration(samplesPerCycle) * time.Second / time.Duration(r.state.cfg.SampleRate)
	t := time.NewTicker(period)
	defer t.Stop()
	buf := make([]byte, bufferSizeInBytes)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-t.C:
			if _, err := r.Read(buf); err != nil {
				if err == io.EOF {
					break loop
				}
				return err
			}
		}
	}
	log.Println("Start() ended.")
	return nil
}

// AddMidiEvent ...
func (r *Rack) AddMidiEvent(data []byte) {
	if len(data) == 0 {
		return
	}
	r.state.Lock()
	defer r.state.Unlock()
	status := data[0]
	switch {
	case status == 0xF8:
		r.state.addEvent(&clockTick{})
	case status == 0xFA:
		r.state.addEvent(&clockStart{})
	case status == 0xFC:
		r.state.addEvent(&clockStop{})
	case len(data) < 3:
		return
	case status>>4 == 8 || status>>4 == 9 && data[2] == 0:
		r.state.addEvent(&noteOff{note: int(data[1])})
	case status>>4 == 9:
		r.state.addEvent(&noteOn{note: int(data[1])})
	case status>>4 == 0xB:
		r.state.addEvent(&controlChange{number: int(data[1]), value: int(data[2])})
	}
}
