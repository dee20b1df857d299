package sources

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gmscraper/types"
)

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		list []types.NewsSource
	}{
		{"missing name", []types.NewsSource{{URL: "https://example.gm/feed"}}},
		{"missing url", []types.NewsSource{{Name: "x"}}},
		{"html without selectors", []types.NewsSource{{Name: "x", URL: "https://example.gm", Mode: types.ModeHTML}}},
		{"duplicate name", []types.NewsSource{
			{Name: "x", URL: "https://example.gm/feed"},
			{Name: "x", URL: "https://other.example.gm/feed"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(tt.list); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestNewCatalogDefaultsModeToFeed(t *testing.T) {
	c, err := NewCatalog([]types.NewsSource{{Name: "x", URL: "https://example.gm/feed"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src, err := c.Get("x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if src.Mode != types.ModeFeed {
		t.Fatalf("expected feed mode default, got %q", src.Mode)
	}
}

func TestCatalogGetUnknownSource(t *testing.T) {
	c, err := NewCatalog(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Get("missing")
	var unknown *ErrUnknownSource
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if unknown.Name != "missing" {
		t.Fatalf("expected name carried in error, got %q", unknown.Name)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	c, err := NewCatalog(Defaults())
	if err != nil {
		t.Fatalf("built-in defaults failed validation: %v", err)
	}
	if c.Len() == 0 {
		t.Fatalf("expected built-in sources")
	}

	for _, src := range c.All() {
		if src.Mode == types.ModeHTML && src.Selectors.ArticleList == "" {
			t.Fatalf("html source %q missing article list selector", src.Name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `sources:
  - name: Test Feed
    url: https://example.gm/feed
    category: Politics
  - name: Test Site
    url: https://example.gm
    mode: html
    followLinkForContent: true
    selectors:
      articleList: article.post
      title: h2 a
      link: h2 a
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	list, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(list))
	}
	if list[0].Category != "Politics" {
		t.Fatalf("unexpected category: %q", list[0].Category)
	}
	if !list[1].FollowLinkForContent {
		t.Fatalf("expected followLinkForContent parsed")
	}
	if list[1].Selectors == nil || list[1].Selectors.ArticleList != "article.post" {
		t.Fatalf("expected selectors parsed, got %+v", list[1].Selectors)
	}

	if _, err := NewCatalog(list); err != nil {
		t.Fatalf("loaded catalog failed validation: %v", err)
	}
}

func TestLoadFileRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte("sources: []\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
