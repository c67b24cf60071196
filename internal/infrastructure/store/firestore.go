// Package store implements ports.ArticleStore over Cloud Firestore.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/qizhangumich/arabian-news-process/internal/domain"
	"github.com/qizhangumich/arabian-news-process/internal/ports"
)

// FirestoreStore reads the source collection and rewrites destination
// collections through a shared *firestore.Client.
type FirestoreStore struct {
	client *firestore.Client
	source string
	logger *slog.Logger
}

var _ ports.ArticleStore = (*FirestoreStore)(nil)

// New wires an established Firestore client to the source collection.
func New(client *firestore.Client, sourceCollection string, logger *slog.Logger) *FirestoreStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FirestoreStore{client: client, source: sourceCollection, logger: logger}
}

// FetchInRange returns source documents whose date_published string falls in
// [start, end], newest first. The collection stores ISO-8601 strings, so the
// range filter and the ordering are both lexical.
func (s *FirestoreStore) FetchInRange(ctx context.Context, start, end time.Time) ([]domain.Article, error) {
	query := s.client.Collection(s.source).
		Where("date_published", ">=", start.Format(time.RFC3339)).
		Where("date_published", "<=", end.Format(time.RFC3339))

	articles, err := collectArticles(query.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("query %s by date range: %w", s.source, err)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].DatePublished() > articles[j].DatePublished()
	})

	return articles, nil
}

// FetchRecent returns the newest documents regardless of date, capped at
// limit.
func (s *FirestoreStore) FetchRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	query := s.client.Collection(s.source).
		OrderBy("date_published", firestore.Desc).
		Limit(limit)

	articles, err := collectArticles(query.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("query %s for recent articles: %w", s.source, err)
	}

	return articles, nil
}

// ClearCollection deletes every document in the named collection one by one
// and returns how many went away. Not transactional: a crash mid-way leaves
// the collection partially cleared.
func (s *FirestoreStore) ClearCollection(ctx context.Context, name string) (int, error) {
	iter := s.client.Collection(name).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("iterate %s: %w", name, err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("delete %s/%s: %w", name, doc.Ref.ID, err)
		}
		deleted++
	}

	return deleted, nil
}

// Write upserts one record, under the supplied document ID when present and a
// store-assigned ID otherwise.
func (s *FirestoreStore) Write(ctx context.Context, name string, record domain.ProcessedRecord, docID string) error {
	coll := s.client.Collection(name)

	if docID != "" {
		if _, err := coll.Doc(docID).Set(ctx, record); err != nil {
			return fmt.Errorf("set %s/%s: %w", name, docID, err)
		}
		return nil
	}

	if _, _, err := coll.Add(ctx, record); err != nil {
		return fmt.Errorf("add to %s: %w", name, err)
	}
	return nil
}

// ListCollections logs the collections visible to the client; used at startup
// as a connectivity check.
func (s *FirestoreStore) ListCollections(ctx context.Context) error {
	iter := s.client.Collections(ctx)

	for {
		coll, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list collections: %w", err)
		}
		s.logger.Info("available collection", "id", coll.ID)
	}
}

func collectArticles(iter *firestore.DocumentIterator) ([]domain.Article, error) {
	defer iter.Stop()

	var articles []domain.Article
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return articles, nil
		}
		if err != nil {
			return nil, err
		}

		articles = append(articles, domain.NewArticle(doc.Ref.ID, doc.Data()))
	}
}
