package extract

import (
	"errors"
	"testing"
	"time"

	"gmscraper/types"

	"github.com/mmcdole/gofeed"
)

var feedSource = types.NewsSource{Name: "The Point", URL: "https://thepoint.gm/feed"}

func TestFromFeedItemPrefersFullContent(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Assembly passes budget",
		Link:        "https://thepoint.gm/budget",
		Description: "Short summary.",
		Content:     "<p>The full encoded article body.</p>",
	}

	article, err := FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Content != "<p>The full encoded article body.</p>" {
		t.Fatalf("expected content:encoded preferred, got %q", article.Content)
	}
	if article.Source != "The Point" {
		t.Fatalf("expected source name set, got %q", article.Source)
	}
	if article.ScrapedAt.IsZero() {
		t.Fatalf("expected scrape time set")
	}
}

func TestFromFeedItemFallsBackToDescription(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Ferry resumes",
		Link:        "https://thepoint.gm/ferry",
		Description: "The Banjul-Barra ferry resumed service on Monday.",
	}

	article, err := FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Content != item.Description {
		t.Fatalf("expected description fallback, got %q", article.Content)
	}
}

func TestFromFeedItemRejectsMissingTitleOrLink(t *testing.T) {
	for _, item := range []*gofeed.Item{
		{Link: "https://thepoint.gm/x"},
		{Title: "Headline only"},
		{Title: "   ", Link: "https://thepoint.gm/x"},
	} {
		if _, err := FromFeedItem(item, feedSource); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %+v, got %v", item, err)
		}
	}
}

func TestFeedCategoryPrecedence(t *testing.T) {
	item := &gofeed.Item{
		Title:      "Headline",
		Link:       "https://example.gm/a",
		Categories: []string{"Sports"},
	}

	withCategory := feedSource
	withCategory.Category = "Politics"
	article, err := FromFeedItem(item, withCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Category != "Politics" {
		t.Fatalf("expected source category to win, got %q", article.Category)
	}

	article, err = FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Category != "Sports" {
		t.Fatalf("expected item category, got %q", article.Category)
	}

	item.Categories = nil
	article, err = FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Category != "General" {
		t.Fatalf("expected default category, got %q", article.Category)
	}
}

func TestPublishedDateUsesParsedTime(t *testing.T) {
	published := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	item := &gofeed.Item{
		Title:           "Headline",
		Link:            "https://example.gm/a",
		PublishedParsed: &published,
	}

	article, err := FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Date != published.Format(time.RFC3339) {
		t.Fatalf("expected %s, got %s", published.Format(time.RFC3339), article.Date)
	}
}

func TestPublishedDateRejectsImplausibleTimes(t *testing.T) {
	for _, bad := range []time.Time{
		time.Now().Add(30 * 24 * time.Hour),   // a month ahead
		time.Now().Add(-400 * 24 * time.Hour), // over a year back
	} {
		bad := bad
		item := &gofeed.Item{
			Title:           "Headline",
			Link:            "https://example.gm/a",
			PublishedParsed: &bad,
		}

		article, err := FromFeedItem(item, feedSource)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := time.Parse(time.RFC3339, article.Date)
		if err != nil {
			t.Fatalf("expected RFC3339 date, got %q: %v", article.Date, err)
		}
		if time.Since(got) > time.Minute || time.Until(got) > time.Minute {
			t.Fatalf("expected fallback to current time, got %s", article.Date)
		}
	}
}

func TestPublishedDateDefaultsToNow(t *testing.T) {
	item := &gofeed.Item{Title: "Headline", Link: "https://example.gm/a"}

	article, err := FromFeedItem(item, feedSource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := time.Parse(time.RFC3339, article.Date)
	if err != nil {
		t.Fatalf("expected RFC3339 date, got %q: %v", article.Date, err)
	}
	if time.Since(got) > time.Minute {
		t.Fatalf("expected roughly current time, got %s", article.Date)
	}
}
