package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"git.sr.ht/~whereswaldon/livechart/backend"
	"git.sr.ht/~whereswaldon/livechart/logging"
	"git.sr.ht/~whereswaldon/livechart/signals"
)

func usage() {
	fmt.Fprintf(os.Stderr, `%[1]s: append synthetic samples to a delimited file
Usage:

 %[1]s -o samples.csv &
 livechart -x 0 -y 1 -y 2 -y 3 samples.csv

Each line holds a timestamp followed by one value per signal.

`, os.Args[0])
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	dur := pflag.Duration("sample-interval", 100*time.Millisecond, "Interval between samples")
	outputName := pflag.StringP("output", "o", "-", "File to append samples to")
	signalSpecs := pflag.StringSlice("signal", []string{"sine:10", "ramp:0.1", "walk"}, "Signals to emit, as kind or kind:param (sine, ramp, walk)")
	sep := pflag.StringP("separator", "s", ",", "Field separator")
	seed := pflag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for random walks")
	count := pflag.Int("count", 0, "Stop after this many samples (0 runs until interrupted)")
	logLevel := pflag.String("log-level", "info", "Log level")
	pflag.Parse()
	logging.Init(logging.Config{Level: *logLevel, Format: "console"})
	log := logging.Component("gen")

	sigs := make([]signals.Signal, 0, len(*signalSpecs))
	for i, spec := range *signalSpecs {
		s, err := signals.Parse(spec, *seed+uint64(i))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid signal")
		}
		sigs = append(sigs, s)
	}
	if len(sigs) < 1 {
		log.Fatal().Msg("no signals configured")
	}

	var output io.WriteCloser
	if *outputName == "-" {
		output = os.Stdout
	} else {
		f, err := os.OpenFile(*outputName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			log.Fatal().Err(err).Str("output", *outputName).Msg("failed opening output file")
		}
		output = f
	}
	separator := strings.ReplaceAll(*sep, `\t`, "\t")

	ticker := time.NewTicker(*dur)
	defer ticker.Stop()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	written := 0
	for {
		select {
		case <-sigChan:
			// We've gotten an interrupt; shut down.
			if err := output.Close(); err != nil {
				log.Error().Err(err).Msg("failed closing output")
			}
			return
		case now := <-ticker.C:
			if err := writeSample(output, now, separator, sigs); err != nil {
				log.Fatal().Err(err).Msg("failed writing sample")
			}
			written++
			if *count > 0 && written >= *count {
				if err := output.Close(); err != nil {
					log.Error().Err(err).Msg("failed closing output")
				}
				return
			}
		}
	}
}

// writeSample writes one complete line so a tailing reader never observes a
// partial record for long.
func writeSample(w io.Writer, now time.Time, sep string, sigs []signals.Signal) error {
	var b strings.Builder
	b.WriteString(now.UTC().Format(backend.TimestampLayout))
	for _, s := range sigs {
		v, err := s.Read()
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.Name(), err)
		}
		b.WriteString(sep)
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
