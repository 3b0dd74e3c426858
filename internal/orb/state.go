package orb

import "sync"

// AudioState is one consistent view of the audio input.
// Data is non-nil iff Analyser is non-nil.
type AudioState struct {
	Analyser Analyser
	Data     []byte
	Active   bool
}

// Accessor returns the current audio state. Scenes call it once per frame.
type Accessor func() AudioState

// State is the store shared between the audio side, which writes it, and a
// scene, which reads a fresh snapshot at the top of every frame. Keep one per
// animation instance.
type State struct {
	mu sync.RWMutex
	s  AudioState
}

// NewState returns an idle state with no analyser.
func NewState() *State {
	return &State{}
}

// SetAnalyser swaps the analyser and allocates a matching buffer.
// Passing nil detaches the analyser.
func (s *State) SetAnalyser(a Analyser) {
	var data []byte
	if a != nil {
		data = make([]byte, a.FrequencyBinCount())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a == nil {
		s.s.Analyser = nil
		s.s.Data = nil
		return
	}
	s.s.Analyser = a
	s.s.Data = data
}

// SetActive marks whether a live or playing source feeds the analyser.
func (s *State) SetActive(active bool) {
	s.mu.Lock()
	s.s.Active = active
	s.mu.Unlock()
}

// Active reports the current activity flag.
func (s *State) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s.Active
}

// Snapshot returns all fields from a single critical section.
func (s *State) Snapshot() AudioState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}
