package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func appendText(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(text)
	require.NoError(t, err)
}

func TestWatchEmitsAppendedText(t *testing.T) {
	path := writeTranscript(t, "already here\n")

	opener := &Opener{Path: path}
	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: 50 * time.Millisecond})
	require.NoError(t, err)
	defer source.Close()

	appendText(t, path, "a fresh design point\n")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	chunk, err := source.NextWindow(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a fresh design point", chunk.Text)
	assert.False(t, chunk.IsAudio())
}

func TestWatchFromStartIncludesExisting(t *testing.T) {
	path := writeTranscript(t, "existing discussion text\n")

	opener := &Opener{Path: path, FromStart: true}
	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: 50 * time.Millisecond})
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	chunk, err := source.NextWindow(ctx)
	require.NoError(t, err)
	assert.Equal(t, "existing discussion text", chunk.Text)
}

func TestWatchFlushDrainsRemainder(t *testing.T) {
	path := writeTranscript(t, "")

	opener := &Opener{Path: path}
	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: time.Hour})
	require.NoError(t, err)
	defer source.Close()

	appendText(t, path, "typed after the last window")

	chunk, ok := source.Flush()
	require.True(t, ok)
	assert.Equal(t, "typed after the last window", chunk.Text)

	_, ok = source.Flush()
	assert.False(t, ok, "flush advances the offset")
}

func TestWatchRemovalEndsStream(t *testing.T) {
	path := writeTranscript(t, "")

	opener := &Opener{Path: path}
	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: time.Hour})
	require.NoError(t, err)
	defer source.Close()

	require.NoError(t, os.Remove(path))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = source.NextWindow(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWatchMissingFile(t *testing.T) {
	opener := &Opener{Path: filepath.Join(t.TempDir(), "absent.txt")}
	_, err := opener.Open(context.Background(), domain.CaptureSettings{})
	assert.Error(t, err)
}

func TestWatchContextCancellation(t *testing.T) {
	path := writeTranscript(t, "")

	opener := &Opener{Path: path}
	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: time.Hour})
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = source.NextWindow(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
