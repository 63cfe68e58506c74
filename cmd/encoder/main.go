package main

/*------------------------------------------------------------------
 *
 * Purpose:	Command-line UHJ encoder: converts one or more multi-
 *		channel PCM/FLAC input files into 2-channel UHJ-encoded
 *		stereo FLAC files (spec §6 "CLI (encoder)").
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"github.com/telematixsw/uhjstream/internal/audioio"
	"github.com/telematixsw/uhjstream/internal/config"
	"github.com/telematixsw/uhjstream/internal/uhj"
)

func main() {
	var layoutFlag = pflag.StringP("layout", "l", "", "Force a speaker layout instead of auto-detecting it (stereo, quad, 5.1, 5.1-rear, 7.1, 7.1.4, bformat-wxy, bformat-wxyz).")
	var configFile = pflag.StringP("config-file", "c", "encoder.yaml", "Optional YAML config file for a layout override.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - UHJ ambisonic-to-stereo encoder.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <infile...>\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("reading config", "err", err)
	}

	layoutOverride := -1
	if *layoutFlag != "" {
		l, ok := parseLayoutName(*layoutFlag)
		if !ok {
			log.Fatal("unrecognized -layout value", "layout", *layoutFlag)
		}
		layoutOverride = int(l)
	} else if l, ok := cfg.ResolveLayout(); ok {
		layoutOverride = int(l)
	}

	total := pflag.NArg()
	succeeded := 0
	start := timestamp()

	for _, inPath := range pflag.Args() {
		outPath := outputPathFor(inPath)
		result, err := audioio.EncodeFile(inPath, outPath, layoutOverride)
		if err != nil {
			log.Error("encode failed", "file", inPath, "err", err)
			continue
		}
		succeeded++
		log.Info("encoded", "file", inPath, "out", outPath,
			"layout", result.Layout, "samples_in", result.InputSamples,
			"samples_out", result.OutputSamples)
	}

	summarize(succeeded, total, start)
	if succeeded == 0 {
		os.Exit(1)
	}
	os.Exit(0)
}

// outputPathFor derives "<basename>.uhj.flac" next to the process's
// working directory (spec §6 "Each input path produces <basename>.uhj.flac
// next to the process's working directory").
func outputPathFor(inPath string) string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".uhj.flac"
}

func parseLayoutName(name string) (uhj.Layout, bool) {
	for _, l := range uhj.AllLayouts {
		if l.String() == name {
			return l, true
		}
	}
	return 0, false
}

// summarize prints the spec §7 "all"/"N of M"/"none" end-of-run report.
func summarize(succeeded, total int, start string) {
	switch {
	case succeeded == total:
		fmt.Fprintf(os.Stderr, "%s: encoded all %d file(s)\n", start, total)
	case succeeded == 0:
		fmt.Fprintf(os.Stderr, "%s: encoded none of %d file(s)\n", start, total)
	default:
		fmt.Fprintf(os.Stderr, "%s: encoded %d of %d file(s)\n", start, succeeded, total)
	}
}

// timestamp formats the run's start time for the summary line.
func timestamp() string {
	s, err := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	if err != nil {
		return ""
	}
	return s
}
