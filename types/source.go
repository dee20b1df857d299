package types

// SourceMode selects how a source's content is obtained.
type SourceMode string

const (
	// ModeFeed sources are syndication (RSS/Atom) feeds.
	ModeFeed SourceMode = "feed"
	// ModeHTML sources are plain pages described by a SelectorSet.
	ModeHTML SourceMode = "html"
)

// SelectorSet describes where article fields live inside an HTML page.
// ArticleList locates the repeating container; the rest are resolved
// within each container.
type SelectorSet struct {
	ArticleList string `yaml:"articleList" json:"articleList"`
	Title       string `yaml:"title" json:"title"`
	Link        string `yaml:"link" json:"link"`
	Date        string `yaml:"date" json:"date"`
	Category    string `yaml:"category" json:"category"`
	Content     string `yaml:"content" json:"content"`
}

// NewsSource is an immutable catalog entry for one publisher endpoint.
// Loaded once at startup and never mutated afterwards.
type NewsSource struct {
	ID       string `yaml:"id" json:"id,omitempty"`
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Category string `yaml:"category" json:"category,omitempty"`
	// RateLimit is requests per minute; 0 means the configured default.
	RateLimit int        `yaml:"rateLimit" json:"rateLimit,omitempty"`
	Mode      SourceMode `yaml:"mode" json:"mode"`

	// Selectors is required for ModeHTML sources.
	Selectors *SelectorSet `yaml:"selectors" json:"selectors,omitempty"`
	// FollowLinkForContent makes the extractor fetch each article's own
	// page and read the body from there instead of the list snippet.
	FollowLinkForContent bool `yaml:"followLinkForContent" json:"followLinkForContent,omitempty"`
}
