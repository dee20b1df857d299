package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"gmscraper/fetch"
	"gmscraper/types"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// HTMLExtractor pulls article candidates out of selector-described pages.
// Detail-page fetches are the expensive part, so per-source extraction runs
// through a bounded worker pool.
type HTMLExtractor struct {
	client      *fetch.Client
	concurrency int
}

// NewHTMLExtractor builds an extractor; concurrency bounds in-flight
// detail-page fetches per source page.
func NewHTMLExtractor(client *fetch.Client, concurrency int) *HTMLExtractor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &HTMLExtractor{client: client, concurrency: concurrency}
}

// Extract parses a list page and resolves every article container found by
// the source's selector set. Candidates without a title or link are
// discarded; a failure on one container never aborts the rest.
func (e *HTMLExtractor) Extract(ctx context.Context, body []byte, source types.NewsSource) ([]types.Article, error) {
	if source.Selectors == nil {
		return nil, fmt.Errorf("source %s has no selectors", source.Name)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	containers := doc.Find(source.Selectors.ArticleList)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		articles = make([]types.Article, 0, containers.Length())
	)

	jobs := make(chan *goquery.Selection, containers.Length())

	for i := 0; i < e.concurrency; i++ {
		go func() {
			for s := range jobs {
				if article, ok := e.extractOne(ctx, s, source); ok {
					mu.Lock()
					articles = append(articles, article)
					mu.Unlock()
				}
				wg.Done()
			}
		}()
	}

	containers.Each(func(_ int, s *goquery.Selection) {
		wg.Add(1)
		jobs <- s
	})

	wg.Wait()
	close(jobs)

	return articles, nil
}

func (e *HTMLExtractor) extractOne(ctx context.Context, s *goquery.Selection, source types.NewsSource) (types.Article, bool) {
	sel := source.Selectors

	title := strings.TrimSpace(s.Find(sel.Title).First().Text())
	if title == "" {
		return types.Article{}, false
	}

	href, _ := s.Find(sel.Link).First().Attr("href")
	link := resolveLink(source.URL, strings.TrimSpace(href))
	if link == "" {
		return types.Article{}, false
	}

	dateEl := s.Find(sel.Date).First()
	date := strings.TrimSpace(dateEl.Text())
	if date == "" {
		date = strings.TrimSpace(dateEl.AttrOr("datetime", ""))
	}
	if date == "" {
		date = NoDateFound
	}

	category := strings.TrimSpace(s.Find(sel.Category).First().Text())
	if category == "" {
		category = NoCategoryFound
	}

	var content string
	if source.FollowLinkForContent {
		content = e.detailContent(ctx, link, source)
	} else {
		content = strings.TrimSpace(s.Find(sel.Content).First().Text())
	}
	if content == "" {
		content = NoContentFound
	}

	return types.Article{
		Title:     title,
		Link:      link,
		Source:    source.Name,
		Date:      date,
		Category:  category,
		Content:   content,
		ScrapedAt: time.Now(),
	}, true
}

// detailContent fetches the article's own page and reads the body from it.
// With a content selector the matching elements are joined; without one the
// page goes through readability extraction instead.
func (e *HTMLExtractor) detailContent(ctx context.Context, link string, source types.NewsSource) string {
	resp, err := e.client.Get(ctx, link)
	if err != nil {
		log.Printf("Warning: failed to fetch detail page %s: %v", link, err)
		return ""
	}

	if source.Selectors.Content == "" {
		return e.readabilityContent(resp.Body, link)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		log.Printf("Warning: failed to parse detail page %s: %v", link, err)
		return ""
	}

	var parts []string
	doc.Find(source.Selectors.Content).Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}

func (e *HTMLExtractor) readabilityContent(body []byte, link string) string {
	pageURL, err := url.Parse(link)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		log.Printf("Warning: readability extraction failed for %s: %v", link, err)
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}

// resolveLink absolutizes a possibly relative href against the source origin.
func resolveLink(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return baseURL.ResolveReference(ref).String()
}
