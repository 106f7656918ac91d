package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/pinpoint/internal/llm"
)

// StubLLM answers prompts with canned responses keyed by a substring of the
// prompt. It implements llm.Client.
type StubLLM struct {
	Responses map[string]string
	// Err, when set, is returned for every call.
	Err   error
	calls int
	mu    sync.Mutex
}

var _ llm.Client = (*StubLLM)(nil)

// NewStubLLM returns a stub that knows the fixture addresses.
func NewStubLLM() *StubLLM {
	return &StubLLM{Responses: map[string]string{
		PuneAddress:     PuneResponse,
		MadhapurAddress: MadhapurResponse,
	}}
}

// Complete returns the response whose key appears in the prompt.
func (s *StubLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.Err != nil {
		return "", s.Err
	}
	for key, resp := range s.Responses {
		if strings.Contains(req.Prompt, key) {
			return resp, nil
		}
	}
	return "", fmt.Errorf("stub has no response for prompt")
}

// Calls returns the number of Complete calls.
func (s *StubLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
