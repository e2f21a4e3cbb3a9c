package framework

import (
	"sync"
)

// State is the in-memory blackboard a graph execution works on. It holds the
// conversation transcript plus scratch values nodes use to communicate across
// edges (pending tool calls, iteration counters). The system prompt is not part
// of the transcript; flows prepend it at call time.
type State struct {
	mu       sync.RWMutex
	messages []Message
	values   map[string]any
}

// NewState builds an empty state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Append adds messages to the transcript.
func (s *State) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
}

// Messages returns a copy of the transcript.
func (s *State) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

// Last returns the most recent message, if any.
func (s *State) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Len reports the transcript length.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Reset clears the transcript and scratch values.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.values = make(map[string]any)
}

// Set stores a scratch value.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get retrieves a scratch value.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetInt retrieves an int scratch value, zero when absent or mistyped.
func (s *State) GetInt(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}
