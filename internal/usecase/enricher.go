package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qizhangumich/arabian-news-process/internal/ports"
)

// Sentinel strings returned when both completion attempts fail. They are
// stored verbatim, so downstream readers see a human-readable marker instead
// of a missing field.
const (
	RatingFailed       = "Error: Could not rate article"
	SummaryFailed      = "Error: Could not summarize article"
	TranslationFailed  = "Error: Could not translate to Chinese"
	NothingToTranslate = "Error: No text to translate"

	errSentinelPrefix = "Error:"
)

const (
	ratingSystemPrompt    = "You are a business analyst rating news articles for business importance. Rank articles from 1 to 10, where 1 is MOST important and 10 is LEAST important. The most impactful news that business leaders must see should be ranked 1."
	summarySystemPrompt   = "You are an expert summarizer who creates concise, informative summaries."
	translateSystemPrompt = "You are a professional translator. Translate the following text to Simplified Chinese (Mandarin)."

	ratingMaxTokens    = 10
	summaryMaxTokens   = 150
	translateMaxTokens = 300
)

// Enricher generates the model-derived fields for one article. Every
// operation tries the chat endpoint first and the plain-completion endpoint
// once on failure; total failure degrades to a sentinel string, never an
// error.
type Enricher struct {
	chat   ports.ChatClient
	logger *slog.Logger
}

// NewEnricher wires the completion client.
func NewEnricher(chat ports.ChatClient, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{chat: chat, logger: logger}
}

// Rate asks for a 1-10 business-importance score. The raw trimmed reply is
// returned without numeric validation; ranking coerces it later.
func (e *Enricher) Rate(ctx context.Context, articleText string) string {
	prompt := fmt.Sprintf("Rate the following news article for business importance on a scale of 1 to 10 (where 1 is MOST important and 10 is LEAST important):\n\n%s", articleText)

	rating, err := e.complete(ctx, ratingSystemPrompt, prompt, ratingMaxTokens)
	if err != nil {
		e.logger.Error("rating failed on both endpoints", "error", err)
		return RatingFailed
	}

	e.logger.Debug("received importance rating", "rating", rating)
	return rating
}

// Summarize asks for a roughly three-sentence English summary.
func (e *Enricher) Summarize(ctx context.Context, articleText string) string {
	prompt := fmt.Sprintf("Summarize the following news article in about 3 sentences:\n\n%s", articleText)

	summary, err := e.complete(ctx, summarySystemPrompt, prompt, summaryMaxTokens)
	if err != nil {
		e.logger.Error("summarization failed on both endpoints", "error", err)
		return SummaryFailed
	}

	e.logger.Debug("received summary", "length", len(summary))
	return summary
}

// TranslateToChinese renders text in Simplified Chinese. Empty input and
// upstream sentinels are propagated without touching the API: translating an
// error message would only dress up a failure.
func (e *Enricher) TranslateToChinese(ctx context.Context, text string) string {
	if text == "" || strings.HasPrefix(text, errSentinelPrefix) {
		return NothingToTranslate
	}

	prompt := fmt.Sprintf("Please translate this text to Chinese:\n\n%s", text)

	translation, err := e.complete(ctx, translateSystemPrompt, prompt, translateMaxTokens)
	if err != nil {
		e.logger.Error("translation failed on both endpoints", "error", err)
		return TranslationFailed
	}

	e.logger.Debug("received translation", "length", len(translation))
	return translation
}

// complete is the shared two-tier attempt sequence: primary chat call, then
// one fallback call on the legacy endpoint with the same user prompt.
func (e *Enricher) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	reply, primaryErr := e.chat.ChatCompletion(ctx, system, user, maxTokens)
	if primaryErr == nil {
		return strings.TrimSpace(reply), nil
	}

	e.logger.Warn("chat completion failed, trying fallback endpoint", "error", primaryErr)

	reply, fallbackErr := e.chat.Completion(ctx, user, maxTokens)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary: %v; fallback: %w", primaryErr, fallbackErr)
	}

	return strings.TrimSpace(reply), nil
}
