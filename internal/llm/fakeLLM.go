package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeClient replays scripted responses for offline runs and tests.
// Once the script is exhausted the last entry repeats; an empty script
// yields an empty response.
type FakeClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{responses: responses}
}

// NewFailingClient returns a fake whose every call fails with err.
func NewFailingClient(err error) *FakeClient {
	return &FakeClient{err: err}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return json.RawMessage(""), nil
	}
	i := len(f.prompts) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return json.RawMessage(f.responses[i]), nil
}

// Prompts returns every prompt received so far.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
