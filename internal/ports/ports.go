package ports

import (
	"context"
	"time"

	"github.com/qizhangumich/arabian-news-process/internal/domain"
)

// ArticleStore reads source articles and rewrites the processed collection.
type ArticleStore interface {
	FetchInRange(ctx context.Context, start, end time.Time) ([]domain.Article, error)
	FetchRecent(ctx context.Context, limit int) ([]domain.Article, error)
	ClearCollection(ctx context.Context, name string) (int, error)
	Write(ctx context.Context, name string, record domain.ProcessedRecord, docID string) error
}

// ChatClient exposes the two completion endpoints the enricher falls between:
// the chat endpoint is primary, the plain-completion endpoint is the one-shot
// fallback.
type ChatClient interface {
	ChatCompletion(ctx context.Context, system, user string, maxTokens int) (string, error)
	Completion(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Notifier delivers the run report to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// RunRecorder appends one entry per pipeline execution to the audit log.
type RunRecorder interface {
	RecordRun(ctx context.Context, stats domain.RunStats) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
