package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContentCaptured indicates a capture session ended without
	// recording enough audio to transcribe.
	ErrNoContentCaptured = errors.New("no content captured")

	// ErrSessionActive indicates a capture session is already recording.
	ErrSessionActive = errors.New("capture session already active")

	// ErrSessionIdle indicates stop was requested with no active session.
	ErrSessionIdle = errors.New("no capture session active")

	// ErrCancelled indicates the session was cancelled cooperatively.
	ErrCancelled = errors.New("session cancelled")

	// ErrOutOfBounds indicates a computed position falls outside its
	// region even after clamping. The item is skipped, not misplaced.
	ErrOutOfBounds = errors.New("position outside region bounds")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Classification and segmentation degrade to local fallbacks.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrTranscriberUnavailable indicates no transcription service is
	// configured; audio capture cannot produce text.
	ErrTranscriberUnavailable = errors.New("transcription service unavailable")

	// ErrBoardUnavailable indicates the board client is not configured.
	ErrBoardUnavailable = errors.New("board client unavailable")

	// ErrCaptureDevice indicates the capture source could not be opened.
	ErrCaptureDevice = errors.New("capture device unavailable")

	// ErrRateLimited indicates the platform rate limit was exceeded
	// and retries were exhausted.
	ErrRateLimited = errors.New("rate limited")
)
