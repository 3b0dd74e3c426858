package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olivier-w/orbit/internal/analyser"
	"github.com/olivier-w/orbit/internal/capture"
	"github.com/olivier-w/orbit/internal/media"
	"github.com/olivier-w/orbit/internal/orb"
	"github.com/olivier-w/orbit/internal/player"
	"github.com/olivier-w/orbit/internal/ui"
)

// selection names the audio source to open: the microphone or a file.
type selection struct {
	path string
	mic  bool
}

// openSource starts the selected source and wires its PCM into a fresh
// analyser attached to the orb state.
func openSource(sel selection, opts ui.Options) (ui.Model, error) {
	state := orb.NewState()

	if sel.mic {
		an, err := analyser.New(analyser.WithChannels(capture.ChannelCount))
		if err != nil {
			return ui.Model{}, err
		}
		mic, err := capture.Start(an)
		if err != nil {
			return ui.Model{}, fmt.Errorf("opening microphone: %w", err)
		}
		state.SetAnalyser(an)
		return ui.New(mic, "Microphone", state, opts), nil
	}

	if err := checkAudioFile(sel.path); err != nil {
		return ui.Model{}, err
	}

	p, err := player.New(sel.path, nil)
	if err != nil {
		return ui.Model{}, fmt.Errorf("error creating player: %w", err)
	}
	an, err := analyser.New(analyser.WithChannels(p.ChannelCount()))
	if err != nil {
		p.Close()
		return ui.Model{}, err
	}
	p.SetSink(an)
	state.SetAnalyser(an)

	title := player.ReadMetadata(sel.path).String()
	return ui.New(p, title, state, opts), nil
}

func checkAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}
