package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/orbit/internal/orb"
	"github.com/olivier-w/orbit/internal/ui"
)

func main() {
	var (
		mic      = flag.Bool("mic", false, "visualize the default microphone")
		fps      = flag.Int("fps", ui.DefaultFPS, "frames per second")
		dots     = flag.Int("dots", 0, "number of dots (0 keeps the default)")
		divisor  = flag.Float64("divisor", 0, "energy divisor (0 keeps the default)")
		mono     = flag.Bool("mono", false, "draw dots in a single colour")
		seed     = flag.Int64("seed", 0, "seed for dot placement and noise (0 picks one)")
		snapshot = flag.String("snapshot", "", "render one frame of the file into this PNG and exit")
		at       = flag.Duration("at", 0, "offset into the file for -snapshot")
		size     = flag.String("size", "800x800", "image size for -snapshot")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: orbit [flags] [file]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if path := os.Getenv("ORBIT_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "orbit")
		if err != nil {
			fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	opts := ui.Options{
		FPS:     *fps,
		Dots:    *dots,
		Divisor: *divisor,
		Seed:    *seed,
	}
	if *mono {
		opts.Mode = orb.Monochrome
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	if *snapshot != "" {
		if flag.NArg() != 1 {
			fatal(fmt.Errorf("-snapshot needs exactly one input file"))
		}
		w, h, err := parseSize(*size)
		if err != nil {
			fatal(err)
		}
		job := snapshotJob{input: flag.Arg(0), output: *snapshot, at: *at, width: w, height: h}
		if err := runSnapshot(context.Background(), job, opts); err != nil {
			fatal(err)
		}
		return
	}

	var model tea.Model
	switch {
	case *mic || flag.NArg() > 0:
		m, err := openSource(selection{path: flag.Arg(0), mic: *mic}, opts)
		if err != nil {
			fatal(err)
		}
		model = m
	default:
		model = newStartupModel(opts)
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
