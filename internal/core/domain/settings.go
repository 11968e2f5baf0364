package domain

import (
	"fmt"
	"time"
)

// Settings holds all pipeline tunables. Zero values are filled with
// defaults by DefaultSettings; Validate rejects nonsense combinations
// before a session starts.
type Settings struct {
	Resilience     ResilienceSettings     `toml:"resilience"`
	Capture        CaptureSettings        `toml:"capture"`
	Segmentation   SegmentationSettings   `toml:"segmentation"`
	Classification ClassificationSettings `toml:"classification"`
	Layout         LayoutSettings         `toml:"layout"`
	Board          BoardSettings          `toml:"board"`
	LLM            LLMSettings            `toml:"llm"`
}

// ResilienceSettings configures the rate-limited client wrapping all
// external platform calls.
type ResilienceSettings struct {
	// MinCallInterval is the minimum gap between consecutive calls.
	MinCallInterval time.Duration `toml:"min_call_interval"`

	// MaxRetries is the retry ceiling for a failed call.
	MaxRetries int `toml:"max_retries"`

	// BackoffBase scales as base * 2^attempt between retries.
	BackoffBase time.Duration `toml:"backoff_base"`

	// CallTimeout is the per-call ceiling after which a call is
	// treated as failed.
	CallTimeout time.Duration `toml:"call_timeout"`
}

// CaptureSettings configures the chunked capture pipeline.
type CaptureSettings struct {
	// ChunkInterval is the fixed capture window length.
	ChunkInterval time.Duration `toml:"chunk_interval"`

	// MinAudioBytes is the smallest encoded window worth
	// transcribing. Sessions that never reach it report
	// ErrNoContentCaptured.
	MinAudioBytes int `toml:"min_audio_bytes"`
}

// SegmentationSettings configures splitting transcripts into points.
type SegmentationSettings struct {
	// TargetMinChars and TargetMaxChars bound the preferred point
	// length band.
	TargetMinChars int `toml:"target_min_chars"`
	TargetMaxChars int `toml:"target_max_chars"`

	// MinWords discards degenerate fragments below this word count.
	MinWords int `toml:"min_words"`
}

// ClassificationSettings configures relevance scoring.
type ClassificationSettings struct {
	// Scale is the score range and threshold.
	Scale ScoreScale `toml:"scale"`

	// CacheTTL bounds how long an evaluation is reused for the same
	// (point, corpus) pair.
	CacheTTL time.Duration `toml:"cache_ttl"`

	// CorpusTTL bounds how long a fetched reference corpus is reused.
	CorpusTTL time.Duration `toml:"corpus_ttl"`

	// CorpusRegion is the title of the region holding the reference
	// corpus.
	CorpusRegion string `toml:"corpus_region"`
}

// LayoutSettings configures the spatial packing engine.
type LayoutSettings struct {
	// CardWidth is the card width in board units.
	CardWidth float64 `toml:"card_width"`

	// CardSpacing is the gap between adjacent cards.
	CardSpacing float64 `toml:"card_spacing"`

	// RowHeight is the vertical pitch of one layout row.
	RowHeight float64 `toml:"row_height"`

	// Margin keeps cards off the region edges.
	Margin float64 `toml:"margin"`

	// TopMargin reserves space for header content at the region top.
	TopMargin float64 `toml:"top_margin"`

	// CardCharLimit is the hard per-card character ceiling; longer
	// points are split into chained runs.
	CardCharLimit int `toml:"card_char_limit"`

	// ChainOffset is the fixed vertical gap between cards in a
	// chained run.
	ChainOffset float64 `toml:"chain_offset"`

	// RegionWidth and RegionHeight are the default geometry for
	// lazily created regions.
	RegionWidth  float64 `toml:"region_width"`
	RegionHeight float64 `toml:"region_height"`
}

// BoardSettings configures the canvas platform adapter.
type BoardSettings struct {
	// BaseURL is the platform REST endpoint.
	BaseURL string `toml:"base_url"`

	// BoardID is the target board.
	BoardID string `toml:"board_id"`

	// AccessToken authenticates platform calls. Usually supplied via
	// environment rather than the config file.
	AccessToken string `toml:"access_token"`
}

// IsConfigured returns true if enough is set to reach a real board.
func (b BoardSettings) IsConfigured() bool {
	return b.BoardID != "" && b.AccessToken != ""
}

// LLMSettings configures the language model provider used for
// transcription, segmentation and classification.
type LLMSettings struct {
	// BaseURL is the API endpoint (OpenAI-compatible).
	BaseURL string `toml:"base_url"`

	// Model is the completion model name.
	Model string `toml:"model"`

	// TranscribeModel is the audio transcription model name.
	TranscribeModel string `toml:"transcribe_model"`

	// APIKey authenticates API calls. Usually supplied via
	// environment rather than the config file.
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the provider can be constructed.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != ""
}

// DefaultSettings returns the documented defaults for every tunable.
func DefaultSettings() Settings {
	return Settings{
		Resilience: ResilienceSettings{
			MinCallInterval: 100 * time.Millisecond,
			MaxRetries:      3,
			BackoffBase:     500 * time.Millisecond,
			CallTimeout:     120 * time.Second,
		},
		Capture: CaptureSettings{
			ChunkInterval: 20 * time.Second,
			MinAudioBytes: 4096,
		},
		Segmentation: SegmentationSettings{
			TargetMinChars: 150,
			TargetMaxChars: 250,
			MinWords:       4,
		},
		Classification: ClassificationSettings{
			Scale:        DefaultScoreScale,
			CacheTTL:     30 * time.Minute,
			CorpusTTL:    60 * time.Second,
			CorpusRegion: "Design-Proposal",
		},
		Layout: LayoutSettings{
			CardWidth:     200,
			CardSpacing:   50,
			RowHeight:     120,
			Margin:        20,
			TopMargin:     60,
			CardCharLimit: 350,
			ChainOffset:   130,
			RegionWidth:   1400,
			RegionHeight:  1000,
		},
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.Resilience.MinCallInterval <= 0 {
		return fmt.Errorf("%w: min_call_interval must be positive", ErrInvalidInput)
	}
	if s.Resilience.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidInput)
	}
	if s.Capture.ChunkInterval <= 0 {
		return fmt.Errorf("%w: chunk_interval must be positive", ErrInvalidInput)
	}
	if !s.Classification.Scale.Valid() {
		return fmt.Errorf("%w: score scale min <= threshold <= max required", ErrInvalidInput)
	}
	if s.Segmentation.TargetMinChars > s.Segmentation.TargetMaxChars {
		return fmt.Errorf("%w: segmentation target band inverted", ErrInvalidInput)
	}
	if s.Layout.CardCharLimit <= 0 {
		return fmt.Errorf("%w: card_char_limit must be positive", ErrInvalidInput)
	}
	if s.Layout.CardWidth <= 0 || s.Layout.RowHeight <= 0 {
		return fmt.Errorf("%w: card geometry must be positive", ErrInvalidInput)
	}
	return nil
}
