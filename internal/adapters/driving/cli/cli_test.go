package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	capturefile "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/capture/file"
	capturewatch "github.com/HowardHan99/codesignbot-sub001/internal/adapters/driven/capture/watch"
)

func TestCaptureOpenerSelection(t *testing.T) {
	reset := func() {
		captureAudio = ""
		captureWatch = ""
		captureFromStart = false
	}

	t.Run("audio flag selects the file source", func(t *testing.T) {
		reset()
		captureAudio = "session.ogg"
		opener, err := captureOpener()
		require.NoError(t, err)
		assert.IsType(t, &capturefile.Opener{}, opener)
	})

	t.Run("watch flag selects the tail source", func(t *testing.T) {
		reset()
		captureWatch = "transcript.txt"
		captureFromStart = true
		opener, err := captureOpener()
		require.NoError(t, err)
		watch, ok := opener.(*capturewatch.Opener)
		require.True(t, ok)
		assert.True(t, watch.FromStart)
	})

	t.Run("both flags are rejected", func(t *testing.T) {
		reset()
		captureAudio = "a.ogg"
		captureWatch = "t.txt"
		_, err := captureOpener()
		assert.Error(t, err)
	})

	t.Run("neither flag is rejected", func(t *testing.T) {
		reset()
		_, err := captureOpener()
		assert.Error(t, err)
	})
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, int64(42), parseValue("42"))
	assert.Equal(t, 1.5, parseValue("1.5"))
	assert.Equal(t, "Design-Proposal", parseValue("Design-Proposal"))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", redact(""))
	assert.Equal(t, "<set>", redact("sk-very-secret"))
}

func TestPlaceInputFromArgs(t *testing.T) {
	placeFile = ""
	text, err := placeInput([]string{"two", "words"})
	require.NoError(t, err)
	assert.Equal(t, "two words", text)
}
