package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := New(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return svc
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	svc, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestComplete(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "score this", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, 8, req.MaxTokens)

		w.Write([]byte(`{"choices":[{"message":{"content":"2"}}]}`))
	})

	reply, err := svc.Complete(context.Background(), "score this", "the point", driven.CompleteOptions{MaxTokens: 8})
	require.NoError(t, err)
	assert.Equal(t, "2", reply)
}

func TestCompleteAPIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"auth"}}`))
	})

	_, err := svc.Complete(context.Background(), "s", "u", driven.CompleteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestCompleteNoChoices(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := svc.Complete(context.Background(), "s", "u", driven.CompleteOptions{})
	assert.Error(t, err)
}

func TestTranscribe(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, DefaultTranscribeModel, r.FormValue("model"))
		assert.Equal(t, "sketch, canvas", r.FormValue("prompt"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "chunk.ogg", header.Filename)

		w.Write([]byte(`{"text":"the transcribed window"}`))
	})

	text, err := svc.Transcribe(context.Background(), []byte("fake-audio"), "audio/ogg", []string{"sketch", "canvas"})
	require.NoError(t, err)
	assert.Equal(t, "the transcribed window", text)
}

func TestTranscribeUnknownMIMEFallsBack(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "chunk.webm", header.Filename)
		w.Write([]byte(`{"text":"ok"}`))
	})

	_, err := svc.Transcribe(context.Background(), []byte("x"), "audio/unknown", nil)
	assert.NoError(t, err)
}

func TestTranscribeRejectsEmptyChunk(t *testing.T) {
	svc, err := New(Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = svc.Transcribe(context.Background(), nil, "audio/webm", nil)
	assert.Error(t, err)
}
