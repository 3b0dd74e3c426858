package canvas

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var black = colorful.Color{}

// shade blends c over a black background at the given alpha.
func shade(c color.Color, alpha float64) colorful.Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return black
	}
	return black.BlendRgb(cf, clamp01(alpha)).Clamped()
}

// ansiState emits foreground colour changes for one rendered frame.
type ansiState struct {
	profile termenv.Profile
	seqs    map[string]string
	current string
}

func newANSIState(p termenv.Profile, cache map[string]string) ansiState {
	return ansiState{profile: p, seqs: cache}
}

func (s *ansiState) set(sb *strings.Builder, c colorful.Color) {
	if s.profile == termenv.Ascii {
		return
	}
	hex := c.Hex()
	if hex == s.current {
		return
	}
	seq, ok := s.seqs[hex]
	if !ok {
		if code := s.profile.Color(hex).Sequence(false); code != "" {
			seq = termenv.CSI + code + "m"
		}
		s.seqs[hex] = seq
	}
	sb.WriteString(seq)
	s.current = hex
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == termenv.Ascii || s.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	s.current = ""
}
