package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jinjor/cvgen/src/dsp"
	"golang.org/x/sync/errgroup"
)

var (
	numSamples = flag.Int("n", 8000, "number of samples per curve")
	sampleRate = flag.Uint("rate", dsp.SampleRate, "sample rate in Hz")
)

type curve struct {
	name    string
	process func() int
}

func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		panic("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)

	cfg := dsp.NewConfig(uint32(*sampleRate))
	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range curves(cfg) {
		c := c
		g.Go(func() error {
			err := save(ctx, filepath.Join(dir, c.name+".csv"), c.process, *numSamples)
			log.Printf("saved %s\n", c.name)
			return err
		})
	}
	err := g.Wait()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully generated curves.")
}

func curves(cfg dsp.Config) []curve {
	phasor := dsp.NewPhasor(cfg)
	phasor.SetFreq(10)

	oscs := make([]curve, 0, 3)
	for _, wave := range []dsp.Wave{dsp.WaveSaw, dsp.WaveTriangle, dsp.WavePulse} {
		o := dsp.NewOsc(cfg)
		o.SetFreq(10)
		o.SetWave(wave)
		oscs = append(oscs, curve{"osc_" + wave.String(), o.Process})
	}

	env := dsp.NewEnv(cfg)
	env.Reset()

	trig := dsp.NewTrigGen(dsp.DefaultTrigWidth, dsp.DefaultTrigAmp)
	trig.Reset()

	slew := dsp.NewSlewedDC(cfg)
	slew.SetSlew(50)
	slew.Set(dsp.MaxLevel)

	return append([]curve{
		{"phasor", phasor.Process},
		{"env", env.Process},
		{"trig", trig.Process},
		{"slew", slew.Process},
	}, oscs...)
}

func save(ctx context.Context, path string, process func() int, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := fmt.Fprintf(w, "%d,%d\n", i, process()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
