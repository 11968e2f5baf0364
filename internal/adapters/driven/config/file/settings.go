package file

import (
	"os"
	"time"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
)

// Environment variables override config-file credentials so tokens
// never have to live on disk.
const (
	EnvBoardToken = "CODESIGNBOT_BOARD_TOKEN"
	EnvBoardID    = "CODESIGNBOT_BOARD_ID"
	EnvAPIKey     = "OPENAI_API_KEY"
)

// LoadSettings builds domain settings from defaults, the config store,
// and the environment, in that precedence order.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()
	if store == nil {
		applyEnv(&s)
		return s
	}

	if v := store.GetInt("resilience.min_call_interval_ms"); v > 0 {
		s.Resilience.MinCallInterval = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt("resilience.max_retries"); v > 0 {
		s.Resilience.MaxRetries = v
	}
	if v := store.GetInt("resilience.backoff_base_ms"); v > 0 {
		s.Resilience.BackoffBase = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt("resilience.call_timeout_s"); v > 0 {
		s.Resilience.CallTimeout = time.Duration(v) * time.Second
	}

	if v := store.GetInt("capture.chunk_interval_s"); v > 0 {
		s.Capture.ChunkInterval = time.Duration(v) * time.Second
	}
	if v := store.GetInt("capture.min_audio_bytes"); v > 0 {
		s.Capture.MinAudioBytes = v
	}

	if v := store.GetInt("segmentation.target_min_chars"); v > 0 {
		s.Segmentation.TargetMinChars = v
	}
	if v := store.GetInt("segmentation.target_max_chars"); v > 0 {
		s.Segmentation.TargetMaxChars = v
	}
	if v := store.GetInt("segmentation.min_words"); v > 0 {
		s.Segmentation.MinWords = v
	}

	if v := store.GetInt("classification.score_min"); v > 0 {
		s.Classification.Scale.Min = v
	}
	if v := store.GetInt("classification.score_max"); v > 0 {
		s.Classification.Scale.Max = v
	}
	if v := store.GetInt("classification.score_threshold"); v > 0 {
		s.Classification.Scale.Threshold = v
	}
	if v := store.GetInt("classification.cache_ttl_s"); v > 0 {
		s.Classification.CacheTTL = time.Duration(v) * time.Second
	}
	if v := store.GetInt("classification.corpus_ttl_s"); v > 0 {
		s.Classification.CorpusTTL = time.Duration(v) * time.Second
	}
	if v := store.GetString("classification.corpus_region"); v != "" {
		s.Classification.CorpusRegion = v
	}

	if v := store.GetFloat("layout.card_width"); v > 0 {
		s.Layout.CardWidth = v
	}
	if v := store.GetFloat("layout.card_spacing"); v > 0 {
		s.Layout.CardSpacing = v
	}
	if v := store.GetFloat("layout.row_height"); v > 0 {
		s.Layout.RowHeight = v
	}
	if v := store.GetFloat("layout.margin"); v > 0 {
		s.Layout.Margin = v
	}
	if v := store.GetFloat("layout.top_margin"); v > 0 {
		s.Layout.TopMargin = v
	}
	if v := store.GetInt("layout.card_char_limit"); v > 0 {
		s.Layout.CardCharLimit = v
	}
	if v := store.GetFloat("layout.chain_offset"); v > 0 {
		s.Layout.ChainOffset = v
	}
	if v := store.GetFloat("layout.region_width"); v > 0 {
		s.Layout.RegionWidth = v
	}
	if v := store.GetFloat("layout.region_height"); v > 0 {
		s.Layout.RegionHeight = v
	}

	if v := store.GetString("board.base_url"); v != "" {
		s.Board.BaseURL = v
	}
	if v := store.GetString("board.board_id"); v != "" {
		s.Board.BoardID = v
	}
	if v := store.GetString("llm.base_url"); v != "" {
		s.LLM.BaseURL = v
	}
	if v := store.GetString("llm.model"); v != "" {
		s.LLM.Model = v
	}
	if v := store.GetString("llm.transcribe_model"); v != "" {
		s.LLM.TranscribeModel = v
	}

	applyEnv(&s)
	return s
}

func applyEnv(s *domain.Settings) {
	if v := os.Getenv(EnvBoardToken); v != "" {
		s.Board.AccessToken = v
	}
	if v := os.Getenv(EnvBoardID); v != "" {
		s.Board.BoardID = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.LLM.APIKey = v
	}
}
