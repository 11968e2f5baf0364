package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// testClient returns a resilience client tuned so tests run fast.
func testClient(retries int) *resilience.Client {
	return resilience.NewClient(time.Millisecond, resilience.Policy{
		MaxRetries:  retries,
		BackoffBase: time.Millisecond,
		CallTimeout: time.Second,
	})
}

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing. Replies are
// consumed in order; the last one repeats. errs aligns with replies and
// nil entries mean success.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int

	lastSystem string
	lastUser   string
}

func (m *mockLLM) Complete(_ context.Context, system, user string, _ driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	return m.replies[i], nil
}

func (m *mockLLM) ModelName() string { return "mock" }
func (m *mockLLM) Close() error      { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockTranscriber implements driven.Transcriber for testing.
type mockTranscriber struct {
	mu    sync.Mutex
	texts []string
	err   error
	calls int
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ []byte, _ string, _ []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	i := m.calls
	m.calls++
	if i >= len(m.texts) {
		return "", nil
	}
	return m.texts[i], nil
}

func (m *mockTranscriber) Close() error { return nil }

// mockSource implements driven.CaptureSource over a scripted chunk
// list. An optional partial chunk is returned by Flush.
type mockSource struct {
	mu      sync.Mutex
	chunks  []domain.ContentChunk
	partial *domain.ContentChunk
	next    int
	closed  bool
}

func (m *mockSource) NextWindow(ctx context.Context) (domain.ContentChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.ContentChunk{}, err
	}
	if m.next >= len(m.chunks) {
		return domain.ContentChunk{}, io.EOF
	}
	c := m.chunks[m.next]
	m.next++
	return c, nil
}

func (m *mockSource) Flush() (domain.ContentChunk, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.partial == nil {
		return domain.ContentChunk{}, false
	}
	return *m.partial, true
}

func (m *mockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// mockOpener implements driven.CaptureOpener.
type mockOpener struct {
	source *mockSource
	err    error
}

func (m *mockOpener) Open(_ context.Context, _ domain.CaptureSettings) (driven.CaptureSource, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.source, nil
}

// audioChunk builds an audio window of n bytes.
func audioChunk(n int) domain.ContentChunk {
	return domain.ContentChunk{Data: make([]byte, n), MIMEType: "audio/webm"}
}

// textChunk builds a typed-text window.
func textChunk(text string) domain.ContentChunk {
	return domain.ContentChunk{Text: text}
}
