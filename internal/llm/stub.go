package llm

import (
	"context"
	"fmt"
	"sync"
)

// Stub is a scriptable Client for tests and development. Chat replies are
// popped from Replies in order; the last entry repeats once exhausted.
type Stub struct {
	mu      sync.Mutex
	Replies []string
	// Err, when set, is returned by every chat call.
	Err error

	Transcript string
	Audio      []byte
	Vectors    [][]float32

	// CompleteCalls counts chat completions (text and vision), so tests can
	// assert the bounded-repair behavior.
	CompleteCalls int
	// LastUser records the most recent user prompt.
	LastUser string
}

func (s *Stub) next(user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CompleteCalls++
	s.LastUser = user
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Replies) == 0 {
		return "{}", nil
	}
	reply := s.Replies[0]
	if len(s.Replies) > 1 {
		s.Replies = s.Replies[1:]
	}
	return reply, nil
}

// Complete implements Client.
func (s *Stub) Complete(_ context.Context, _, user string, _ bool) (string, error) {
	return s.next(user)
}

// CompleteVision implements Client.
func (s *Stub) CompleteVision(_ context.Context, _, user string, _ []byte, _ string, _ bool) (string, error) {
	return s.next(user)
}

// Transcribe implements Client.
func (s *Stub) Transcribe(context.Context, []byte, string, string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if s.Transcript == "" {
		return "stub transcript", nil
	}
	return s.Transcript, nil
}

// Speak implements Client.
func (s *Stub) Speak(_ context.Context, text string) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Audio != nil {
		return s.Audio, nil
	}
	return []byte("stub-mp3:" + text[:min(len(text), 16)]), nil
}

// Embed implements Client. When Vectors is unset it returns orthogonal unit
// vectors so cosine similarity is well defined.
func (s *Stub) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Vectors != nil {
		if len(s.Vectors) != len(texts) {
			return nil, fmt.Errorf("stub: %d vectors for %d texts", len(s.Vectors), len(texts))
		}
		return s.Vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, 4)
		v[i%4] = 1
		out[i] = v
	}
	return out, nil
}
