package file

import (
	"bytes"
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

func writeAudio(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := bytes.Repeat([]byte{0xAB}, size)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestSourceEmitsFixedWindows(t *testing.T) {
	path := writeAudio(t, "session.ogg", 250)
	opener := &Opener{Path: path, WindowBytes: 100}

	source, err := opener.Open(context.Background(), domain.CaptureSettings{ChunkInterval: time.Second})
	require.NoError(t, err)
	defer source.Close()

	first, err := source.NextWindow(context.Background())
	require.NoError(t, err)
	assert.Len(t, first.Data, 100)
	assert.Equal(t, "audio/ogg", first.MIMEType)
	assert.True(t, first.IsAudio())

	second, err := source.NextWindow(context.Background())
	require.NoError(t, err)
	assert.Len(t, second.Data, 100)

	// The remaining 50 bytes are a partial window: held for Flush.
	_, err = source.NextWindow(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	partial, ok := source.Flush()
	require.True(t, ok)
	assert.Len(t, partial.Data, 50)

	_, ok = source.Flush()
	assert.False(t, ok, "flush drains the buffer")
}

func TestSourceExactMultiple(t *testing.T) {
	path := writeAudio(t, "session.wav", 200)
	opener := &Opener{Path: path, WindowBytes: 100}

	source, err := opener.Open(context.Background(), domain.CaptureSettings{})
	require.NoError(t, err)
	defer source.Close()

	for i := 0; i < 2; i++ {
		chunk, err := source.NextWindow(context.Background())
		require.NoError(t, err)
		assert.Len(t, chunk.Data, 100)
	}

	_, err = source.NextWindow(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	_, ok := source.Flush()
	assert.False(t, ok, "no partial window after an exact multiple")
}

func TestSourceUnknownExtension(t *testing.T) {
	path := writeAudio(t, "session.raw", 10)
	opener := &Opener{Path: path, WindowBytes: 100}

	source, err := opener.Open(context.Background(), domain.CaptureSettings{})
	require.NoError(t, err)
	defer source.Close()

	_, err = source.NextWindow(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	partial, ok := source.Flush()
	require.True(t, ok)
	assert.Equal(t, "audio/webm", partial.MIMEType)
}

func TestOpenerMissingFile(t *testing.T) {
	opener := &Opener{Path: filepath.Join(t.TempDir(), "absent.ogg")}
	_, err := opener.Open(context.Background(), domain.CaptureSettings{})
	assert.Error(t, err)
}

func TestNextWindowHonoursContext(t *testing.T) {
	path := writeAudio(t, "session.ogg", 300)
	opener := &Opener{Path: path, WindowBytes: 100}

	source, err := opener.Open(context.Background(), domain.CaptureSettings{})
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.NextWindow(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
