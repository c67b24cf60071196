package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/qizhangumich/arabian-news-process/internal/content"
	"github.com/qizhangumich/arabian-news-process/internal/domain"
	"github.com/qizhangumich/arabian-news-process/internal/ports"
	"github.com/qizhangumich/arabian-news-process/internal/timeutil"
)

// shortContentThreshold triggers a warning for bodies that look like teasers
// rather than full articles.
const shortContentThreshold = 50

// PipelineDeps wires all driven adapters into the daily processing run.
type PipelineDeps struct {
	Store               ports.ArticleStore
	Enricher            *Enricher
	Notifier            ports.Notifier
	History             ports.RunRecorder
	Logger              *slog.Logger
	Out                 io.Writer
	Now                 func() time.Time
	Location            *time.Location
	ProcessedCollection string
	FallbackLimit       int
}

// Pipeline implements one batch run: fetch yesterday's articles, enrich each,
// rank by importance, then clear and rewrite the processed collection.
type Pipeline struct {
	store     ports.ArticleStore
	enricher  *Enricher
	notifier  ports.Notifier
	history   ports.RunRecorder
	logger    *slog.Logger
	out       io.Writer
	now       func() time.Time
	loc       *time.Location
	processed string
	fallback  int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	fallback := deps.FallbackLimit
	if fallback <= 0 {
		fallback = 10
	}

	return &Pipeline{
		store:     deps.Store,
		enricher:  deps.Enricher,
		notifier:  deps.Notifier,
		history:   deps.History,
		logger:    logger,
		out:       out,
		now:       now,
		loc:       loc,
		processed: deps.ProcessedCollection,
		fallback:  fallback,
	}
}

// Run executes one full pass. Per-article and per-save failures are absorbed;
// only fetch and clear failures propagate, since continuing past either would
// produce a wrong destination state.
func (p *Pipeline) Run(ctx context.Context) error {
	startedAt := p.now().In(p.loc)
	stats := domain.RunStats{StartedAt: startedAt.Format(time.RFC3339)}

	articles, usedFallback, err := p.fetch(ctx, startedAt)
	if err != nil {
		return err
	}
	stats.Fetched = len(articles)
	stats.UsedFallback = usedFallback

	if len(articles) == 0 {
		p.logger.Info("no articles found to process")
		p.recordRun(ctx, &stats)
		return nil
	}

	enriched := p.enrichAll(ctx, articles)
	stats.Enriched = len(enriched)

	rank(enriched)

	report := buildReport(enriched)
	fmt.Fprint(p.out, report)

	deleted, err := p.store.ClearCollection(ctx, p.processed)
	if err != nil {
		return fmt.Errorf("clear collection %s: %w", p.processed, err)
	}
	p.logger.Info("cleared processed collection", "collection", p.processed, "deleted", deleted)

	stats.Saved = p.saveAll(ctx, enriched)

	p.recordRun(ctx, &stats)

	if p.notifier != nil && report != "" {
		if err := p.notifier.PublishDigest(ctx, report); err != nil {
			p.logger.Error("publish digest failed", "error", err)
		}
	}

	return nil
}

// fetch queries yesterday's window, then falls back to the most recent
// articles when the window is empty. A fallback failure is logged, not fatal.
func (p *Pipeline) fetch(ctx context.Context, now time.Time) ([]domain.Article, bool, error) {
	start, end := timeutil.YesterdayRange(now)
	p.logger.Info("querying for news",
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339))

	articles, err := p.store.FetchInRange(ctx, start, end)
	if err != nil {
		return nil, false, fmt.Errorf("fetch yesterday's news: %w", err)
	}
	p.logger.Info("found articles from yesterday", "count", len(articles))

	if len(articles) > 0 {
		return articles, false, nil
	}

	p.logger.Info("no articles from yesterday, fetching most recent as fallback", "limit", p.fallback)
	recent, err := p.store.FetchRecent(ctx, p.fallback)
	if err != nil {
		p.logger.Error("fallback fetch failed", "error", err)
		return nil, true, nil
	}

	for _, art := range recent {
		fields := make([]string, 0, len(art.Fields))
		for name := range art.Fields {
			fields = append(fields, name)
		}
		sort.Strings(fields)
		p.logger.Debug("fallback article",
			"id", art.ID,
			"date", art.DatePublished(),
			"fields", strings.Join(fields, ","))
	}

	return recent, true, nil
}

// enrichAll runs the three model operations per article, strictly in fetch
// order. Articles without a usable content field are skipped; a skip never
// aborts the batch.
func (p *Pipeline) enrichAll(ctx context.Context, articles []domain.Article) []domain.EnrichedArticle {
	enriched := make([]domain.EnrichedArticle, 0, len(articles))

	for i, art := range articles {
		p.logger.Info("processing article",
			"index", fmt.Sprintf("%d/%d", i+1, len(articles)),
			"title", art.Title())

		raw, field, ok := content.Resolve(art.Fields)
		if !ok {
			p.logger.Warn("skipping article, no content field", "id", art.ID)
			continue
		}
		if field != "content" {
			p.logger.Info("using alternate content field", "field", field)
		}

		text := content.Flatten(raw)
		if len(text) < shortContentThreshold {
			p.logger.Warn("content seems very short, may not be a full article",
				"id", art.ID, "length", len(text))
		}

		truncated := content.Truncate(text, content.MaxPromptRunes)
		if truncated != text {
			p.logger.Info("content truncated for model requests",
				"id", art.ID, "from", len([]rune(text)), "to", content.MaxPromptRunes)
		}

		item := domain.EnrichedArticle{Article: art}
		item.BusinessImportance = domain.ParseImportance(p.enricher.Rate(ctx, truncated))
		item.Summary = p.enricher.Summarize(ctx, truncated)
		item.SummaryChinese = p.enricher.TranslateToChinese(ctx, item.Summary)
		if art.HasTitle() {
			item.TitleChinese = p.enricher.TranslateToChinese(ctx, art.Title())
		}

		enriched = append(enriched, item)
	}

	return enriched
}

// rank sorts ascending by importance (1 is most important); unparsable
// ratings sink to the bottom and ties keep fetch order.
func rank(articles []domain.EnrichedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].BusinessImportance.SortKey() < articles[j].BusinessImportance.SortKey()
	})
}

// saveAll writes one record per enriched article with its 1-based rank. All
// records share a single run timestamp, and one failed write never stops the
// rest.
func (p *Pipeline) saveAll(ctx context.Context, articles []domain.EnrichedArticle) int {
	processedAt := p.now().In(p.loc).Format(time.RFC3339)
	p.logger.Info("saving processed articles",
		"count", len(articles), "collection", p.processed)

	saved := 0
	for i, art := range articles {
		record := buildRecord(art, i+1, processedAt)

		if err := p.store.Write(ctx, p.processed, record, record.DocID()); err != nil {
			p.logger.Error("failed to save article", "id", art.ID, "error", err)
			continue
		}

		saved++
		p.logger.Info("saved article", "title", art.Title(), "rank", record.Rank)
	}

	p.logger.Info("save complete", "saved", saved, "attempted", len(articles))
	return saved
}

func buildRecord(art domain.EnrichedArticle, rank int, processedAt string) domain.ProcessedRecord {
	record := domain.ProcessedRecord{
		OriginalArticleID:  art.ID,
		Title:              art.Title(),
		DatePublished:      art.DatePublished(),
		BusinessImportance: art.BusinessImportance.Raw,
		Summary:            art.Summary,
		ProcessedAt:        processedAt,
		Source:             art.SourceURL(),
		Rank:               rank,
		SummaryChinese:     art.SummaryChinese,
		TitleChinese:       art.TitleChinese,
	}

	if author, ok := art.Fields["author"].(string); ok {
		record.Author = author
	}
	if category, ok := art.Fields["category"].(string); ok {
		record.Category = category
	}
	if tags, ok := art.Fields["tags"]; ok {
		record.Tags = tags
	}

	return record
}

func (p *Pipeline) recordRun(ctx context.Context, stats *domain.RunStats) {
	stats.FinishedAt = p.now().In(p.loc).Format(time.RFC3339)

	if p.history == nil {
		return
	}
	if err := p.history.RecordRun(ctx, *stats); err != nil {
		p.logger.Error("record run history failed", "error", err)
	}
}

// buildReport renders the human-readable run summary printed after ranking
// and pushed to the notifier.
func buildReport(articles []domain.EnrichedArticle) string {
	if len(articles) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nRated and summarized news:\n")

	for _, art := range articles {
		b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
		fmt.Fprintf(&b, "Title: %s\n", art.Title())
		if art.TitleChinese != "" {
			fmt.Fprintf(&b, "中文标题 (Chinese Title): %s\n", art.TitleChinese)
		}
		if art.DatePublished() != "" {
			fmt.Fprintf(&b, "Date: %s\n", art.DatePublished())
		}
		fmt.Fprintf(&b, "Business Importance: %s (1=most important, 10=least important)\n", art.BusinessImportance.Raw)
		fmt.Fprintf(&b, "Summary: %s\n", art.Summary)
		if art.SummaryChinese != "" {
			fmt.Fprintf(&b, "中文摘要 (Chinese Summary): %s\n", art.SummaryChinese)
		}
		b.WriteString(strings.Repeat("=", 50) + "\n")
	}

	return b.String()
}
