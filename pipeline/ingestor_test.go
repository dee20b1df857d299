package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gmscraper/dedup"
	"gmscraper/fetch"
	"gmscraper/health"
	"gmscraper/kvstore"
	"gmscraper/ratelimit"
	"gmscraper/sanitize"
	"gmscraper/sources"
	"gmscraper/storage"
	"gmscraper/types"
)

// rssBody renders a minimal feed whose item bodies are long enough to
// survive sanitization.
func rssBody(title, link string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
	<title>test feed</title>
	<item>
		<title>%s</title>
		<link>%s</link>
		<description>A full paragraph of article text that comfortably clears the minimum
		content length used by the cleaning stage, with enough words to read like a real
		news story rather than page chrome.</description>
	</item>
</channel></rss>`, title, link)
}

func feedServer(t *testing.T, title string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssBody(title, "https://example.gm/"+r.Host))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	ingestor *Ingestor
	store    *storage.Memory
	recent   *kvstore.Memory
	monitor  *health.Monitor
	catalog  *sources.Catalog
}

func newTestEnv(t *testing.T, list []types.NewsSource) *testEnv {
	t.Helper()

	catalog, err := sources.NewCatalog(list)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	store := storage.NewMemory()
	recent := kvstore.NewMemory()
	monitor := health.NewMonitor(3, nil)

	ingestor := NewIngestor(Config{
		Catalog:    catalog,
		Fetcher:    fetch.NewClient(fetch.Options{RetryDelay: time.Millisecond}),
		Sanitizer:  sanitize.New(100),
		Dedup:      dedup.NewEngine(dedup.Config{}),
		Health:     monitor,
		Store:      store,
		Limiter:    ratelimit.NewLimiter(),
		Recent:     recent,
		BatchDelay: time.Millisecond,
	})

	return &testEnv{ingestor: ingestor, store: store, recent: recent, monitor: monitor, catalog: catalog}
}

func feedSources(servers map[string]*httptest.Server) []types.NewsSource {
	list := make([]types.NewsSource, 0, len(servers))
	for name, srv := range servers {
		list = append(list, types.NewsSource{Name: name, URL: srv.URL, Mode: types.ModeFeed})
	}
	return list
}

func TestRunSurvivesPartialFailure(t *testing.T) {
	servers := map[string]*httptest.Server{
		"alpha": feedServer(t, "River transport project launched"),
		"bravo": feedServer(t, "Teachers end nationwide strike"),
		"delta": feedServer(t, "New fish landing site opens in Tanji"),
		"echo":  feedServer(t, "Parliament debates tourism levy"),
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	list := append(feedSources(servers), types.NewsSource{Name: "charlie", URL: broken.URL, Mode: types.ModeFeed})
	env := newTestEnv(t, list)

	summary := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})

	if summary.Success != 4 {
		t.Fatalf("expected 4 successful sources, got %d (errors: %+v)", summary.Success, summary.Errors)
	}
	if summary.Failed != 1 {
		t.Fatalf("expected 1 failed source, got %d", summary.Failed)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Source != "charlie" {
		t.Fatalf("expected error attributed to charlie, got %+v", summary.Errors)
	}
	if len(summary.Articles) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(summary.Articles))
	}
	if env.store.Len() != 4 {
		t.Fatalf("expected 4 stored articles, got %d", env.store.Len())
	}

	if status := env.monitor.Status("charlie"); status.FailureCount != 1 {
		t.Fatalf("expected one recorded failure for charlie, got %d", status.FailureCount)
	}
	if status := env.monitor.Status("alpha"); status.Status != types.StateHealthy {
		t.Fatalf("expected alpha healthy, got %s", status.Status)
	}
}

func TestRunRetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, rssBody("Council approves market renovation", "https://example.gm/market"))
	}))
	t.Cleanup(srv.Close)

	env := newTestEnv(t, []types.NewsSource{{Name: "flaky", URL: srv.URL, Mode: types.ModeFeed}})

	summary := env.ingestor.Run(context.Background(), Options{RetryAttempts: 3})

	if summary.Success != 1 || summary.Failed != 0 {
		t.Fatalf("expected recovery within the retry budget, got %+v", summary)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 fetch attempts, got %d", attempts)
	}
}

func TestRunDeduplicatesAcrossSources(t *testing.T) {
	servers := map[string]*httptest.Server{}
	for _, name := range []string{"first", "second"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, rssBody("Cabinet reshuffle announced by state house", "https://example.gm/reshuffle"))
		}))
		t.Cleanup(srv.Close)
		servers[name] = srv
	}

	env := newTestEnv(t, feedSources(servers))
	summary := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})

	if summary.Success != 2 {
		t.Fatalf("expected both sources to succeed, got %d", summary.Success)
	}
	if len(summary.Articles) != 1 {
		t.Fatalf("expected duplicate story removed, got %d articles", len(summary.Articles))
	}
	if summary.Dedup.DuplicatesRemoved != 1 {
		t.Fatalf("expected 1 duplicate removed, got %+v", summary.Dedup)
	}
	if summary.Articles[0].Hash == "" {
		t.Fatalf("expected surviving article to carry its hash")
	}
}

func TestRunDryRunSkipsStorage(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Dry run story about road maintenance"),
	}))

	summary := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1, DryRun: true})

	if summary.Success != 1 || len(summary.Articles) != 1 {
		t.Fatalf("expected pipeline to run fully, got %+v", summary)
	}
	if env.store.Len() != 0 {
		t.Fatalf("expected nothing stored on a dry run, got %d", env.store.Len())
	}
}

func TestRunSkipsRecentlyScrapedSources(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Story that should not be refetched"),
	}))

	first := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1, SkipRecent: true})
	if first.Success != 1 {
		t.Fatalf("expected first run to scrape, got %+v", first)
	}

	second := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1, SkipRecent: true})
	if second.Skipped != 1 || second.Success != 0 {
		t.Fatalf("expected second run to skip, got %+v", second)
	}

	// Without the flag the source is scraped again.
	third := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})
	if third.Success != 1 {
		t.Fatalf("expected third run to scrape, got %+v", third)
	}
}

func TestDryRunDoesNotMarkSourcesRecent(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Story validated before the real run"),
	}))

	dry := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1, DryRun: true})
	if dry.Success != 1 {
		t.Fatalf("expected dry run to scrape, got %+v", dry)
	}

	real := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1, SkipRecent: true})
	if real.Success != 1 || real.Skipped != 0 {
		t.Fatalf("expected real run to scrape after a dry run, got %+v", real)
	}
	if env.store.Len() != 1 {
		t.Fatalf("expected the real run to store the article, got %d", env.store.Len())
	}
}

func TestProcessSourceRecordsStatusCode(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Status code bookkeeping story"),
	}))

	src, err := env.catalog.Get("alpha")
	if err != nil {
		t.Fatalf("get source failed: %v", err)
	}

	result := env.ingestor.processSource(context.Background(), src, Options{RetryAttempts: 1})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 recorded, got %d", result.StatusCode)
	}
	if result.ResponseTime <= 0 {
		t.Fatalf("expected response time recorded")
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(broken.Close)

	env2 := newTestEnv(t, []types.NewsSource{{Name: "gone", URL: broken.URL, Mode: types.ModeFeed}})
	src2, err := env2.catalog.Get("gone")
	if err != nil {
		t.Fatalf("get source failed: %v", err)
	}

	result = env2.ingestor.processSource(context.Background(), src2, Options{RetryAttempts: 1})
	if result.Success {
		t.Fatalf("expected failure for 404 source")
	}
	if result.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 recorded, got %d", result.StatusCode)
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Same story served on every request"),
	}))

	env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})
	env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})

	if env.store.Len() != 1 {
		t.Fatalf("expected upsert to keep a single copy, got %d", env.store.Len())
	}
}

func TestRunSourceUnknownName(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Known source story"),
	}))

	if _, err := env.ingestor.RunSource(context.Background(), "nope", Options{}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestRunSourceScrapesSingleSource(t *testing.T) {
	env := newTestEnv(t, feedSources(map[string]*httptest.Server{
		"alpha": feedServer(t, "Targeted single source story"),
		"bravo": feedServer(t, "Completely unrelated other story"),
	}))

	summary, err := env.ingestor.RunSource(context.Background(), "alpha", Options{RetryAttempts: 1})
	if err != nil {
		t.Fatalf("run source failed: %v", err)
	}
	if summary.Success != 1 || len(summary.Articles) != 1 {
		t.Fatalf("expected exactly the named source scraped, got %+v", summary)
	}
	if summary.Articles[0].Source != "alpha" {
		t.Fatalf("expected article from alpha, got %s", summary.Articles[0].Source)
	}
}

func TestRunDropsUnsanitizableArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>stub feed</title>
	<item>
		<title>Stub entry</title>
		<link>https://example.gm/stub</link>
		<description>Too short to keep.</description>
	</item>
</channel></rss>`)
	}))
	t.Cleanup(srv.Close)

	env := newTestEnv(t, []types.NewsSource{{Name: "stubby", URL: srv.URL, Mode: types.ModeFeed}})
	summary := env.ingestor.Run(context.Background(), Options{RetryAttempts: 1})

	// The source itself succeeds; only the article is dropped.
	if summary.Success != 1 || summary.Failed != 0 {
		t.Fatalf("expected source success despite dropped article, got %+v", summary)
	}
	if len(summary.Articles) != 0 {
		t.Fatalf("expected stub article dropped, got %d", len(summary.Articles))
	}
}
