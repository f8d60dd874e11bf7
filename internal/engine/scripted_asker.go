package engine

import (
	"context"
	"io"
	"sync"
)

// ScriptedAsker is a test implementation of the Asker interface.
// It replays canned replies in order and returns io.EOF when they run out.
type ScriptedAsker struct {
	replies []string
	calls   []AskCall
	mu      sync.Mutex
}

// AskCall records the details of a single Ask request.
type AskCall struct {
	Prompt  string
	Reply   string
	Options []string
}

// NewScriptedAsker creates an asker that answers with replies in order.
func NewScriptedAsker(replies ...string) *ScriptedAsker {
	return &ScriptedAsker{
		replies: replies,
		calls:   make([]AskCall, 0),
	}
}

// Ask returns the next scripted reply.
func (s *ScriptedAsker) Ask(ctx context.Context, prompt string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) >= len(s.replies) {
		return "", io.EOF
	}

	reply := s.replies[len(s.calls)]
	s.calls = append(s.calls, AskCall{
		Prompt:  prompt,
		Options: append([]string(nil), options...),
		Reply:   reply,
	})
	return reply, nil
}

// Calls returns the recorded Ask requests.
func (s *ScriptedAsker) Calls() []AskCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AskCall(nil), s.calls...)
}

var _ Asker = (*ScriptedAsker)(nil)
