package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jinjor/cvgen/src/dsp"
	"github.com/jinjor/cvgen/src/rack"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	sockFileName = flag.String("sock", "/tmp/cvgen.sock", "unix socket for commands and reports")
	sampleRate   = flag.Uint("rate", dsp.SampleRate, "sample rate in Hz")
	midiPort     = flag.Int("midi", -1, "MIDI IN port index, -1 to disable")
	monitor      = flag.Bool("monitor", false, "play the monitored channel on the audio device")
	meter        = flag.Bool("meter", true, "show channel levels on the terminal")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := dsp.NewConfig(uint32(*sampleRate))
	log.Printf("sample rate: %v Hz\n", cfg.SampleRate)
	r, err := rack.NewRack(cfg, *monitor)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer r.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return r.Start(ctx)
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, r.CommandCh)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, r)
		})
		if *midiPort >= 0 {
			g.Go(func() error {
				return receiveMidi(ctx, r, *midiPort)
			})
		}
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(*sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", *sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(*sockFileName)
	}()
	log.Printf("start listening on %s...\n", *sockFileName)
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	// unblock ReadLine on shutdown
	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
	}()
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF || ctx.Err() != nil {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		line = []byte{}
		if err != nil {
			log.Printf("invalid command: %v\n", err)
			continue
		}
		if len(command) == 0 {
			continue
		}
		commandCh <- command
		log.Printf("received: %v\n", command)
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	items := strings.Fields(line)
	for i, item := range items {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		items[i] = escaped
	}
	return items, nil
}

func receiveMidi(ctx context.Context, r *rack.Rack, port int) error {
	ch := rack.ListenToMidiIn(ctx, port)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case data, ok := <-ch:
			if !ok {
				break loop
			}
			r.AddMidiEvent(data)
		}
	}
	log.Println("receiveMidi() ended.")
	return nil
}

func sendReports(ctx context.Context, conn net.Conn, r *rack.Rack) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	fd := int(os.Stdout.Fd())
	showMeter := *meter && term.IsTerminal(fd)
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			levels := r.Levels()
			s := rack.FormatLevels(levels) + "\n"
			if r.Changes.Has("data") {
				r.Changes.Delete("data")
				s += "state " + string(r.ToJSON()) + "\n"
			}
			if _, err := conn.Write([]byte(s)); err != nil {
				return fmt.Errorf("failed to send report: %w", err)
			}
			if showMeter {
				width, _, err := term.GetSize(fd)
				if err != nil {
					width = 80
				}
				fmt.Fprintf(os.Stdout, "\r%s", rack.FormatMeter(levels, width-1))
			}
		}
	}
	if showMeter {
		fmt.Fprintln(os.Stdout)
	}
	log.Println("sendReports() ended.")
	return nil
}
