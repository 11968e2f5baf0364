package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// Ensure CaptureService implements the interface.
var _ driving.CaptureSession = (*CaptureService)(nil)

// captureState is the session state machine:
// Idle -> Recording -> Stopping -> Idle.
type captureState int

const (
	captureIdle captureState = iota
	captureRecording
	captureStopping
)

// CaptureService captures the input stream in fixed windows,
// transcribes each window through the resilience client, and keeps
// transcripts strictly in capture order. Cancellation is cooperative:
// the flag is checked before a window is submitted and again after its
// result arrives; late results are discarded.
type CaptureService struct {
	opener      driven.CaptureOpener
	transcriber driven.Transcriber
	client      *resilience.Client
	cfg         domain.CaptureSettings

	// hints carries preferred vocabulary for the recogniser.
	hints []string

	cancelled atomic.Bool

	mu          sync.Mutex
	state       captureState
	source      driven.CaptureSource
	loopCancel  context.CancelFunc
	loopDone    chan struct{}
	transcripts []string
	audioBytes  int
	typedChars  int
	completed   int
	total       int
	seq         int

	// lastProgress keeps the reported percentage monotone even while
	// a new window is in flight.
	lastProgress float64
}

// NewCaptureService creates a capture session service.
func NewCaptureService(opener driven.CaptureOpener, transcriber driven.Transcriber, client *resilience.Client, cfg domain.CaptureSettings, hints []string) *CaptureService {
	return &CaptureService{
		opener:      opener,
		transcriber: transcriber,
		client:      client,
		cfg:         cfg,
		hints:       hints,
	}
}

// Start transitions Idle -> Recording, opens the source and begins
// the window loop. Device failures surface as domain.ErrCaptureDevice
// and leave the session Idle.
func (s *CaptureService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != captureIdle {
		return domain.ErrSessionActive
	}
	if s.opener == nil {
		return domain.ErrCaptureDevice
	}

	source, err := s.opener.Open(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCaptureDevice, err)
	}

	// Reset per-session state; the cancellation flag starts clear.
	s.source = source
	s.transcripts = nil
	s.audioBytes = 0
	s.typedChars = 0
	s.completed = 0
	s.total = 0
	s.seq = 0
	s.lastProgress = 0
	s.cancelled.Store(false)

	// The loop outlives the Start call, so it runs on its own
	// context rather than the caller's.
	loopCtx, cancel := context.WithCancel(context.Background())
	s.loopCancel = cancel
	s.loopDone = make(chan struct{})
	s.state = captureRecording

	go s.run(loopCtx)

	logger.Info("capture session started, window %v", s.cfg.ChunkInterval)
	return nil
}

// run reads windows until the source ends, the loop context is
// cancelled, or cooperative cancellation is observed.
func (s *CaptureService) run(ctx context.Context) {
	defer close(s.loopDone)

	for {
		if s.cancelled.Load() {
			return
		}

		chunk, err := s.source.NextWindow(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				logger.Warn("capture window failed: %v", err)
			}
			return
		}

		s.mu.Lock()
		chunk.Sequence = s.seq
		s.seq++
		s.total++
		s.mu.Unlock()

		// Cancellation check before submitting the chunk.
		if s.cancelled.Load() {
			return
		}

		text := s.transcribe(ctx, chunk)

		// ...and again after the result: late results are discarded.
		if s.cancelled.Load() {
			return
		}

		s.record(chunk, text)
	}
}

// transcribe converts one chunk to text. Typed-text chunks pass
// through; audio goes to the transcriber with an empty-string
// fallback, so one bad window never kills the session.
func (s *CaptureService) transcribe(ctx context.Context, chunk domain.ContentChunk) string {
	if !chunk.IsAudio() {
		return chunk.Text
	}
	if s.transcriber == nil {
		logger.Warn("audio window %d dropped: %v", chunk.Sequence, domain.ErrTranscriberUnavailable)
		return ""
	}
	text, _ := resilience.Call(ctx, s.client, "transcribe chunk", func(ctx context.Context) (string, error) {
		return s.transcriber.Transcribe(ctx, chunk.Data, chunk.MIMEType, s.hints)
	}, "")
	return text
}

func (s *CaptureService) record(chunk domain.ContentChunk, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chunk.IsAudio() {
		s.audioBytes += len(chunk.Data)
	} else {
		s.typedChars += len(chunk.Text)
	}
	if t := strings.TrimSpace(text); t != "" {
		s.transcripts = append(s.transcripts, t)
	}
	s.completed++
}

// Stop transitions Recording -> Stopping, flushes the buffered partial
// window, awaits its transcription and returns the full transcript in
// capture order. A session below the minimum audio threshold with no
// typed text returns domain.ErrNoContentCaptured.
func (s *CaptureService) Stop(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != captureRecording {
		s.mu.Unlock()
		return "", domain.ErrSessionIdle
	}
	s.state = captureStopping
	cancel := s.loopCancel
	done := s.loopDone
	source := s.source
	s.mu.Unlock()

	cancel()
	<-done

	// Flush whatever partial window was buffered into a final chunk.
	if chunk, ok := source.Flush(); ok && !s.cancelled.Load() {
		s.mu.Lock()
		chunk.Sequence = s.seq
		s.seq++
		s.total++
		s.mu.Unlock()

		text := s.transcribe(ctx, chunk)
		if !s.cancelled.Load() {
			s.record(chunk, text)
		}
	}

	if err := source.Close(); err != nil {
		logger.Warn("capture source close: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = captureIdle
	s.source = nil

	transcript := strings.TrimSpace(strings.Join(s.transcripts, " "))
	if s.typedChars == 0 && s.audioBytes < s.cfg.MinAudioBytes {
		logger.Info("capture stopped with %d audio bytes, below minimum %d", s.audioBytes, s.cfg.MinAudioBytes)
		return "", domain.ErrNoContentCaptured
	}
	if transcript == "" {
		return "", domain.ErrNoContentCaptured
	}
	return transcript, nil
}

// Cancel requests cooperative cancellation. In-flight transcription
// calls finish but their results are discarded, and no further windows
// are scheduled. Stop must still be called to release the source.
func (s *CaptureService) Cancel() {
	s.cancelled.Store(true)
	s.mu.Lock()
	cancel := s.loopCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the window loop has exited,
// either because the source was exhausted or the session was stopped.
// It is nil before the first Start.
func (s *CaptureService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopDone
}

// Progress reports completedChunks / totalChunks in [0, 1],
// monotonically non-decreasing within a session.
func (s *CaptureService) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return s.lastProgress
	}
	p := float64(s.completed) / float64(s.total)
	if p > s.lastProgress {
		s.lastProgress = p
	}
	return s.lastProgress
}
