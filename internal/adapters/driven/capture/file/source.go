// Package file provides a capture source reading encoded audio from a
// file, emitting it in fixed-size windows as if it were recorded live.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
)

// Ensure the types implement the interfaces.
var (
	_ driven.CaptureOpener = (*Opener)(nil)
	_ driven.CaptureSource = (*Source)(nil)
)

// DefaultWindowBytes is the encoded size of one emitted window.
const DefaultWindowBytes = 256 * 1024

// mimeByExtension maps audio file extensions to MIME types.
var mimeByExtension = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
}

// Opener opens file-backed capture sources.
type Opener struct {
	// Path is the audio file to read.
	Path string

	// WindowBytes overrides the emitted window size.
	WindowBytes int
}

// Open opens the file and prepares windowed reading.
func (o *Opener) Open(_ context.Context, _ domain.CaptureSettings) (driven.CaptureSource, error) {
	f, err := os.Open(o.Path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	window := o.WindowBytes
	if window <= 0 {
		window = DefaultWindowBytes
	}

	mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(o.Path))]
	if !ok {
		mime = "audio/webm"
	}

	return &Source{file: f, window: window, mime: mime}, nil
}

// Source emits a file's bytes as fixed-size capture windows.
type Source struct {
	file   *os.File
	window int
	mime   string
	buf    []byte
	done   bool
}

// NextWindow returns the next full window, or io.EOF once the file is
// exhausted. The final partial window is held back for Flush, matching
// a live session where stop drains the buffered remainder.
func (s *Source) NextWindow(ctx context.Context) (domain.ContentChunk, error) {
	if err := ctx.Err(); err != nil {
		return domain.ContentChunk{}, err
	}
	if s.done {
		return domain.ContentChunk{}, io.EOF
	}

	chunk := make([]byte, s.window)
	n, err := io.ReadFull(s.file, chunk)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		s.done = true
		s.buf = chunk[:n]
		return domain.ContentChunk{}, io.EOF
	}
	if err != nil {
		return domain.ContentChunk{}, fmt.Errorf("read window: %w", err)
	}

	return domain.ContentChunk{
		ID:         uuid.New().String(),
		Data:       chunk,
		MIMEType:   s.mime,
		CapturedAt: time.Now(),
	}, nil
}

// Flush returns the final partial window, if any.
func (s *Source) Flush() (domain.ContentChunk, bool) {
	if len(s.buf) == 0 {
		return domain.ContentChunk{}, false
	}
	chunk := domain.ContentChunk{
		ID:         uuid.New().String(),
		Data:       s.buf,
		MIMEType:   s.mime,
		CapturedAt: time.Now(),
	}
	s.buf = nil
	return chunk, true
}

// Close releases the file handle.
func (s *Source) Close() error {
	return s.file.Close()
}
