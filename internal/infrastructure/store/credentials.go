package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/qizhangumich/arabian-news-process/internal/config"
)

// utf8BOM shows up in key files exported on Windows; strip it before parsing.
const utf8BOM = "\xef\xbb\xbf"

// serviceAccount is the subset of a Firebase key file we need.
type serviceAccount struct {
	ProjectID string `json:"project_id"`
}

// Connect loads service-account credentials and opens a Firestore client.
// Inline JSON (from the environment) wins over the key file path. Any
// credential problem is fatal: the job cannot do anything without the store.
func Connect(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	raw, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	projectID, err := projectIDFromKey(raw)
	if err != nil {
		return nil, err
	}

	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(raw))
	if err != nil {
		return nil, fmt.Errorf("open firestore client for %s: %w", projectID, err)
	}

	return client, nil
}

func loadCredentials(cfg config.FirestoreConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(strings.TrimPrefix(cfg.CredentialsJSON, utf8BOM)), nil
	}

	raw, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("firebase credentials not found: provide %s or set FIREBASE_KEY_JSON: %w", cfg.CredentialsPath, err)
	}

	return []byte(strings.TrimPrefix(string(raw), utf8BOM)), nil
}

func projectIDFromKey(raw []byte) (string, error) {
	var key serviceAccount
	if err := json.Unmarshal(raw, &key); err != nil {
		return "", fmt.Errorf("firebase key is not valid JSON: %w", err)
	}
	if key.ProjectID == "" {
		return "", fmt.Errorf("firebase key has no project_id field")
	}
	return key.ProjectID, nil
}
