package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qizhangumich/arabian-news-process/internal/config"
)

const sampleKey = `{"type":"service_account","project_id":"arabian-news","private_key_id":"x"}`

func TestLoadCredentialsInlineWinsOverFile(t *testing.T) {
	t.Parallel()

	cfg := config.FirestoreConfig{
		CredentialsJSON: sampleKey,
		CredentialsPath: "/nonexistent/key.json",
	}

	raw, err := loadCredentials(cfg)
	if err != nil {
		t.Fatalf("loadCredentials: %v", err)
	}
	if string(raw) != sampleKey {
		t.Fatalf("unexpected credentials: %s", raw)
	}
}

func TestLoadCredentialsFromFileStripsBOM(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "firebase_key.json")
	if err := os.WriteFile(path, []byte(utf8BOM+sampleKey), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	raw, err := loadCredentials(config.FirestoreConfig{CredentialsPath: path})
	if err != nil {
		t.Fatalf("loadCredentials: %v", err)
	}
	if strings.HasPrefix(string(raw), utf8BOM) {
		t.Fatal("BOM not stripped")
	}

	projectID, err := projectIDFromKey(raw)
	if err != nil {
		t.Fatalf("projectIDFromKey: %v", err)
	}
	if projectID != "arabian-news" {
		t.Fatalf("project id = %q", projectID)
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := loadCredentials(config.FirestoreConfig{CredentialsPath: "/nonexistent/key.json"}); err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestProjectIDFromKeyErrors(t *testing.T) {
	t.Parallel()

	if _, err := projectIDFromKey([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := projectIDFromKey([]byte(`{"type":"service_account"}`)); err == nil {
		t.Fatal("expected error for missing project_id")
	}
}
