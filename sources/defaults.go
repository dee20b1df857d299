package sources

import "gmscraper/types"

// Defaults is the built-in publisher catalog: the Gambian outlets that expose
// a syndication feed, plus the ones that have to be scraped off their pages.
func Defaults() []types.NewsSource {
	return []types.NewsSource{
		{
			ID:   "standard",
			Name: "Standard",
			URL:  "https://standard.gm/feed",
			Mode: types.ModeFeed,
		},
		{
			ID:   "kerrfatou",
			Name: "Kerr Fatou",
			URL:  "https://www.kerrfatou.com/feed",
			Mode: types.ModeFeed,
		},
		{
			ID:   "foroyaa",
			Name: "Foroyaa",
			URL:  "https://foroyaa.net/feed",
			Mode: types.ModeFeed,
		},
		{
			ID:   "fatunetwork",
			Name: "Fatu Network",
			URL:  "https://fatunetwork.net/feed",
			Mode: types.ModeFeed,
		},
		{
			ID:   "voicegambia",
			Name: "Voice Gambia",
			URL:  "https://www.voicegambia.com/feed",
			Mode: types.ModeFeed,
		},
		{
			ID:   "thepoint",
			Name: "The Point GM",
			URL:  "https://thepoint.gm/posts/rss/xml",
			Mode: types.ModeFeed,
		},
		{
			ID:   "standard-web",
			Name: "The Standard Newspaper",
			URL:  "https://standard.gm",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: "article, .post-item, .news-item, .entry, .td_module_flex",
				Title:       "h2 a, h3 a, .entry-title a, .post-title a, h2, h3",
				Content:     ".tdb-block-inner.td-fix-index > p",
				Link:        "h2 a, h3 a, .entry-title a, .read-more",
				Date:        ".date, .post-date, .entry-date, time",
				Category:    ".category, .post-category, .cat-link",
			},
			FollowLinkForContent: true,
		},
		{
			ID:   "thepoint-web",
			Name: "The Point",
			URL:  "https://thepoint.gm",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: ".articles-listing-item",
				Link:        "h3.articles-listing-title a",
				Title:       "h3.articles-listing-title a",
				Date:        "p.text-dark",
				Content:     ".hero-banner-text",
				Category:    "small",
			},
			FollowLinkForContent: true,
		},
		{
			ID:   "foroyaa-web",
			Name: "Foroyaa Newspaper",
			URL:  "https://foroyaa.net",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: "article, .post, .news-post",
				Title:       "h2 a, h3 a, .entry-title a, h2, h3",
				Content:     ".entry-content p, .excerpt, .post-excerpt",
				Link:        "h2 a, h3 a, .entry-title a",
				Date:        ".date, .post-date, time",
				Category:    ".category, .post-category",
			},
		},
		{
			ID:   "fatunetwork-web",
			Name: "The Fatu Network",
			URL:  "https://fatunetwork.net",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: "article, .post, .news-item",
				Title:       "h2 a, h3 a, .entry-title a, h2, h3",
				Content:     ".entry-content p, .excerpt, .summary",
				Link:        "h2 a, h3 a, .entry-title a",
				Date:        ".date, .post-date, time",
				Category:    ".category, .cat-link",
			},
		},
		{
			ID:   "voicegambia-web",
			Name: "The Voice",
			URL:  "https://www.voicegambia.com",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: "article, .post, .news-post",
				Title:       "h2 a, h3 a, .entry-title a, h2, h3",
				Content:     ".entry-content p, .excerpt",
				Link:        "h2 a, h3 a, .entry-title a",
				Date:        ".date, .post-date, time",
				Category:    ".category",
			},
		},
		{
			ID:   "therepublic-web",
			Name: "The Republic",
			URL:  "https://therepublic.gm",
			Mode: types.ModeHTML,
			Selectors: &types.SelectorSet{
				ArticleList: "article, .post, .news-item",
				Title:       "h2 a, h3 a, .entry-title a, h2, h3",
				Content:     ".entry-content p, .excerpt",
				Link:        "h2 a, h3 a, .entry-title a",
				Date:        ".date, .post-date, time",
				Category:    ".category, .post-category",
			},
		},
	}
}
