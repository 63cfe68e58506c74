package main

/*------------------------------------------------------------------
 *
 * Purpose:	Interactive backend device monitor: opens the Event
 *		Manager, prints the live DeviceList and default device
 *		names, and refreshes on hotplug — standing in for the
 *		"probe" operation named in spec §6, exercised end-to-end
 *		outside of a playback/capture session.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"github.com/spf13/pflag"

	"github.com/telematixsw/uhjstream/internal/backend"
	"github.com/telematixsw/uhjstream/internal/config"
)

func main() {
	var refreshSeconds = pflag.IntP("refresh", "r", 1, "Seconds between display refreshes.")
	var configFile = pflag.StringP("config-file", "c", "backend.yaml", "Path to an optional backend config file.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - interactive audio device monitor.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPress 'q' or Ctrl-C to quit.\n")
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("loading config", "err", err)
	}
	if cfg.StatsIntervalSeconds != 0 {
		backend.SetStatsInterval(time.Duration(cfg.StatsIntervalSeconds) * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	em := backend.NewEventManager()
	if err := em.Start(ctx); err != nil {
		log.Fatal("connecting to audio server", "err", err)
	}
	defer em.Stop()
	backend.WatchHotplug(ctx, em)

	if err := em.WaitForInit(ctx); err != nil {
		log.Fatal("waiting for device registry init", "err", err)
	}

	meta := backend.NewMetadataProxy(em)
	meta.SetPreferredSink(cfg.PreferredSink)
	meta.SetPreferredSource(cfg.PreferredSource)

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		log.Warn("raw terminal mode unavailable, falling back to plain output", "err", err)
	} else {
		defer tty.Restore()
		defer tty.Close()
	}

	quit := make(chan struct{})
	if tty != nil {
		go watchQuitKey(tty, quit)
	}

	ticker := time.NewTicker(time.Duration(*refreshSeconds) * time.Second)
	defer ticker.Stop()

	meta.Refresh()
	render(em, meta)
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			meta.Refresh()
			render(em, meta)
		}
	}
}

// watchQuitKey reads single bytes from tty and closes quit on 'q' or Ctrl-C.
func watchQuitKey(tty *term.Term, quit chan struct{}) {
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			return
		}
		if buf[0] == 'q' || buf[0] == 0x03 {
			close(quit)
			return
		}
	}
}

func render(em *backend.EventManager, meta *backend.MetadataProxy) {
	fmt.Print("\033[H\033[2J")
	fmt.Printf("default sink:   %s\n", meta.DefaultSinkDev())
	fmt.Printf("default source: %s\n\n", meta.DefaultSourceDev())

	fmt.Println("Playback devices:")
	for _, d := range em.DeviceList(false) {
		printDevice(d)
	}
	fmt.Println("\nCapture devices:")
	for _, d := range em.DeviceList(true) {
		printDevice(d)
	}
}

func printDevice(d backend.DeviceNode) {
	marker := " "
	if d.IsDefault {
		marker = "*"
	}
	fmt.Printf("%s %-30s %6d Hz  %-8s\n", marker, d.Name, d.SampleRate, d.Channels)
}
