// Package watch provides a capture source for typed text: it tails a
// transcript file with fsnotify and emits appended text as capture
// windows on the configured chunk interval.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
)

// Ensure the types implement the interfaces.
var (
	_ driven.CaptureOpener = (*Opener)(nil)
	_ driven.CaptureSource = (*Source)(nil)
)

// Opener opens tail sources over a text file.
type Opener struct {
	// Path is the transcript file to tail.
	Path string

	// FromStart emits existing file content as the first window
	// instead of only appends.
	FromStart bool
}

// Open starts watching the file. The file must already exist.
func (o *Opener) Open(_ context.Context, cfg domain.CaptureSettings) (driven.CaptureSource, error) {
	info, err := os.Stat(o.Path)
	if err != nil {
		return nil, fmt.Errorf("stat transcript file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(o.Path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch transcript file: %w", err)
	}

	offset := info.Size()
	if o.FromStart {
		offset = 0
	}

	return &Source{
		path:     o.Path,
		watcher:  watcher,
		offset:   offset,
		interval: cfg.ChunkInterval,
	}, nil
}

// Source tails one text file.
type Source struct {
	path     string
	watcher  *fsnotify.Watcher
	interval time.Duration

	mu     sync.Mutex
	offset int64
}

// NextWindow waits one chunk interval while collecting file change
// events, then emits whatever text was appended. Windows with no new
// text are skipped silently until text arrives or the context ends.
func (s *Source) NextWindow(ctx context.Context) (domain.ContentChunk, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.ContentChunk{}, ctx.Err()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return domain.ContentChunk{}, io.EOF
			}
			logger.Warn("transcript watch: %v", err)
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return domain.ContentChunk{}, io.EOF
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				return domain.ContentChunk{}, io.EOF
			}
			// Writes accumulate until the interval tick.
		case <-ticker.C:
			text, err := s.drain()
			if err != nil {
				return domain.ContentChunk{}, err
			}
			if text == "" {
				continue
			}
			return domain.ContentChunk{
				ID:         uuid.New().String(),
				Text:       text,
				CapturedAt: time.Now(),
			}, nil
		}
	}
}

// Flush returns text appended since the last window.
func (s *Source) Flush() (domain.ContentChunk, bool) {
	text, err := s.drain()
	if err != nil || text == "" {
		return domain.ContentChunk{}, false
	}
	return domain.ContentChunk{
		ID:         uuid.New().String(),
		Text:       text,
		CapturedAt: time.Now(),
	}, true
}

// drain reads the file from the recorded offset to its end.
func (s *Source) drain() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(s.offset, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek transcript file: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read transcript file: %w", err)
	}
	s.offset += int64(len(data))
	return strings.TrimSpace(string(data)), nil
}

// Close stops the watcher.
func (s *Source) Close() error {
	return s.watcher.Close()
}
