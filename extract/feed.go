package extract

import (
	"errors"
	"log"
	"strings"
	"time"

	"gmscraper/types"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Sentinel values for intermediate fields. Title and link are required;
// everything else flows downstream with a marker so gaps stay observable.
const (
	NoDateFound     = "No date found"
	NoCategoryFound = "No category found"
	NoContentFound  = "No content found"

	defaultCategory = "General"
)

// ErrMissingFields marks a feed item without a usable title or link. Such
// candidates are dropped, never defaulted into the output set.
var ErrMissingFields = errors.New("item missing required title or link")

// FromFeedItem maps one syndication item to an article candidate. The body
// is still raw markup at this point; sanitization happens downstream.
func FromFeedItem(item *gofeed.Item, source types.NewsSource) (types.Article, error) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return types.Article{}, ErrMissingFields
	}

	// content:encoded (gofeed's Content) over the short description.
	content := item.Content
	if content == "" {
		content = item.Description
	}

	return types.Article{
		Title:     title,
		Link:      link,
		Source:    source.Name,
		Date:      publishedDate(item),
		Category:  feedCategory(item, source),
		Content:   content,
		ScrapedAt: time.Now(),
	}, nil
}

func feedCategory(item *gofeed.Item, source types.NewsSource) string {
	if source.Category != "" {
		return source.Category
	}
	if len(item.Categories) > 0 && item.Categories[0] != "" {
		return item.Categories[0]
	}
	return defaultCategory
}

// publishedDate resolves the item's publish time, rejecting values outside a
// plausible range (a year back to a week ahead) in favor of "now". Feeds get
// these wrong often enough that trusting them blindly skews recency queries.
func publishedDate(item *gofeed.Item) string {
	now := time.Now()

	var t time.Time
	switch {
	case item.PublishedParsed != nil:
		t = *item.PublishedParsed
	case item.Published != "":
		parsed, err := dateparse.ParseAny(item.Published)
		if err != nil {
			log.Printf("Warning: invalid publication date %q, using current time", item.Published)
			return now.Format(time.RFC3339)
		}
		t = parsed
	case item.UpdatedParsed != nil:
		t = *item.UpdatedParsed
	default:
		return now.Format(time.RFC3339)
	}

	maxFuture := now.Add(7 * 24 * time.Hour)
	minPast := now.Add(-365 * 24 * time.Hour)
	if t.After(maxFuture) || t.Before(minPast) {
		log.Printf("Warning: publication date %s out of range, using current time", t.Format(time.RFC3339))
		return now.Format(time.RFC3339)
	}

	return t.Format(time.RFC3339)
}
