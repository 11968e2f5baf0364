package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driven"
	"github.com/HowardHan99/codesignbot-sub001/internal/core/ports/driving"
	"github.com/HowardHan99/codesignbot-sub001/internal/logger"
	"github.com/HowardHan99/codesignbot-sub001/internal/resilience"
)

// Ensure ClassificationService implements the interface.
var _ driving.Classifier = (*ClassificationService)(nil)

// classifySystemPrompt frames the scoring task. The scale bounds are
// substituted per call.
const classifySystemPrompt = `You judge how strongly a new design point relates to an existing design proposal.
Respond with a single integer from %d to %d, where %d means unrelated and %d means directly relevant.
Respond with the integer only.`

// firstIntPattern extracts the first integer from a model reply.
var firstIntPattern = regexp.MustCompile(`-?\d+`)

// cachedEvaluation is one TTL cache entry.
type cachedEvaluation struct {
	eval    domain.Evaluation
	expires time.Time
}

// ClassificationService scores design points against the reference
// corpus. Classification is advisory: every failure path degrades to
// maximum relevance so the pipeline never stalls on it. One service
// may be shared across sessions; the cache is mutex-guarded.
type ClassificationService struct {
	llm    driven.LLMService
	client *resilience.Client
	cfg    domain.ClassificationSettings

	mu    sync.Mutex
	cache map[string]cachedEvaluation
	now   func() time.Time
}

// NewClassificationService creates a classifier. llm may be nil; every
// evaluation then fails open.
func NewClassificationService(llm driven.LLMService, client *resilience.Client, cfg domain.ClassificationSettings) *ClassificationService {
	return &ClassificationService{
		llm:    llm,
		client: client,
		cfg:    cfg,
		cache:  make(map[string]cachedEvaluation),
		now:    time.Now,
	}
}

// Evaluate returns the relevance evaluation for a point against the
// corpus. An empty corpus short-circuits to maximum relevance with no
// external call - there is nothing to be irrelevant to.
func (s *ClassificationService) Evaluate(ctx context.Context, point domain.DesignPoint, corpus domain.ReferenceCorpus) domain.Evaluation {
	scale := s.cfg.Scale

	if corpus.Empty() {
		return domain.Evaluation{Score: scale.Max, Category: scale.Category(scale.Max)}
	}

	key := cacheKey(point.Text, corpus.Entries)
	s.mu.Lock()
	hit, ok := s.cache[key]
	s.mu.Unlock()
	if ok && s.now().Before(hit.expires) {
		return hit.eval
	}

	// The model call runs outside the lock so a slow classification
	// does not serialize unrelated sessions.
	eval := s.classify(ctx, point, corpus)
	s.mu.Lock()
	s.cache[key] = cachedEvaluation{eval: eval, expires: s.now().Add(s.cfg.CacheTTL)}
	s.mu.Unlock()
	return eval
}

func (s *ClassificationService) classify(ctx context.Context, point domain.DesignPoint, corpus domain.ReferenceCorpus) domain.Evaluation {
	scale := s.cfg.Scale
	failOpen := domain.Evaluation{Score: scale.Max, Category: scale.Category(scale.Max)}

	if s.llm == nil {
		logger.Debug("classify: no LLM configured, failing open for %q", point.ID)
		return failOpen
	}

	system := fmt.Sprintf(classifySystemPrompt, scale.Min, scale.Max, scale.Min, scale.Max)
	user := buildClassifyPrompt(point, corpus)

	reply, err := resilience.CallStrict(ctx, s.client, "classify point", func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, system, user, driven.CompleteOptions{MaxTokens: 8})
	})
	if err != nil {
		logger.Warn("classify: call failed for %q, failing open: %v", point.ID, err)
		return failOpen
	}

	score := parseScore(reply, scale)
	return domain.Evaluation{Score: score, Category: scale.Category(score)}
}

// buildClassifyPrompt embeds the corpus as context and the point as
// the subject.
func buildClassifyPrompt(point domain.DesignPoint, corpus domain.ReferenceCorpus) string {
	var b strings.Builder
	b.WriteString("Design proposal:\n")
	for i, entry := range corpus.Entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, entry)
	}
	b.WriteString("\nNew point:\n")
	b.WriteString(point.Text)
	return b.String()
}

// parseScore extracts the first integer from the reply and clamps it.
// A reply with no integer falls back to the threshold value.
func parseScore(reply string, scale domain.ScoreScale) int {
	m := firstIntPattern.FindString(reply)
	if m == "" {
		logger.Debug("classify: no integer in reply %q, using threshold", reply)
		return scale.Threshold
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return scale.Threshold
	}
	return scale.Clamp(n)
}

// cacheKey hashes the point text together with the corpus snapshot so
// a corpus refresh invalidates prior entries.
func cacheKey(text string, entries []string) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, e := range entries {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return hex.EncodeToString(h.Sum(nil))
}
