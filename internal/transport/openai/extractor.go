package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/domain"
	"github.com/lamachat/recall/internal/metrics"
)

const (
	// maxKeywords caps how many terms one extraction yields.
	maxKeywords = 10

	extractionPrompt = "Extract up to %d short topical keywords from the " +
		"conversation below. Reply with a JSON array of lowercase strings and " +
		"nothing else.\n\n%s"
)

// Extractor pulls keywords from conversation text via an OpenAI-compatible
// chat completion API. Without an API key it falls back to a deterministic
// frequency heuristic, so a desktop install works offline.
type Extractor struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the extraction provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewExtractor creates a keyword extractor. An empty APIKey yields a
// heuristic-only extractor.
func NewExtractor(cfg *Config) *Extractor {
	e := &Extractor{
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		e.client = openai.NewClientWithConfig(clientCfg)
	}
	return e
}

// Extract returns keyword terms for the given text.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	if e.client == nil {
		return FallbackExtract(text, maxKeywords), nil
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(extractionPrompt, maxKeywords, text),
		}},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrExtractionProviderError)
	}

	metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, "success").Inc()
	metrics.ExtractionRequestDuration.WithLabelValues(e.provider).Observe(duration.Seconds())

	terms, err := parseKeywordJSON(resp.Choices[0].Message.Content)
	if err != nil {
		// Model ignored the format; salvage with the heuristic.
		e.logger.Warn("unparseable extraction response, using fallback", zap.Error(err))
		return FallbackExtract(text, maxKeywords), nil
	}
	if len(terms) > maxKeywords {
		terms = terms[:maxKeywords]
	}
	return terms, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
// A heuristic-only extractor is always healthy.
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if e.client == nil {
		return nil
	}
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseKeywordJSON reads a JSON string array, tolerating code fences.
func parseKeywordJSON(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var terms []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &terms); err != nil {
		return nil, fmt.Errorf("parse keyword array: %w", err)
	}
	return terms, nil
}

// stopwords excluded by the fallback heuristic.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"you": {}, "have": {}, "are": {}, "was": {}, "but": {}, "not": {},
	"they": {}, "from": {}, "what": {}, "about": {}, "can": {}, "all": {},
	"will": {}, "there": {}, "just": {}, "your": {}, "when": {}, "how": {},
}

// FallbackExtract is the deterministic heuristic: most frequent non-stopword
// terms of length ≥ 3, frequency descending then term ascending.
func FallbackExtract(text string, limit int) []string {
	freq := make(map[string]int)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(f) < 3 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		freq[f]++
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrExtractionProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrExtractionProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("extraction API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("extraction request failed: %w", wrap)
}
