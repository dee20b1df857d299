package sanitize

import "regexp"

// boilerplateSelectors are removed from the document before any generic tag
// stripping runs; once the markup is flattened the plain-text heuristics can
// no longer see this structure.
var boilerplateSelectors = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"form",
	"nav",
	"footer",
	".fb-comments",
	".fb_iframe_widget",
	".sharedaddy",
	".jp-relatedposts",
	".comments-area",
	".comment-respond",
	"#comments",
	"[class*='social-share']",
	"[class*='share-buttons']",
	"[class*='newsletter']",
	"[class*='advert']",
}

// blockBoilerplatePatterns knock out whole block elements whose text is a
// known chrome fragment (social widget notices, legal lines).
var blockBoilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)facebook notice for eu`),
	regexp.MustCompile(`(?i)login to view and post fb comments`),
	regexp.MustCompile(`(?i)^powered by`),
	regexp.MustCompile(`(?i)^all rights reserved`),
	regexp.MustCompile(`(?i)^©\s*\d{4}`),
}

// linePatterns reject individual output lines that are nothing but chrome.
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^comments?$`),
	regexp.MustCompile(`(?i)^login$`),
	regexp.MustCompile(`(?i)^widget$`),
	regexp.MustCompile(`(?i)^notice$`),
	regexp.MustCompile(`(?i)^copyright$`),
	regexp.MustCompile(`(?i)^advertisement$`),
	regexp.MustCompile(`(?i)^share$`),
	regexp.MustCompile(`(?i)^reply$`),
	regexp.MustCompile(`(?i)^post$`),
	regexp.MustCompile(`(?i)^fb$`),
	regexp.MustCompile(`(?i)^social$`),
	regexp.MustCompile(`(?i)^subscribe$`),
	regexp.MustCompile(`(?i)^read more$`),
	regexp.MustCompile(`(?i)^click here$`),
	regexp.MustCompile(`(?i)^follow$`),
	regexp.MustCompile(`(?i)^terms$`),
	regexp.MustCompile(`(?i)^privacy$`),
	regexp.MustCompile(`(?i)^cookie$`),
	regexp.MustCompile(`(?i)^policy$`),
	regexp.MustCompile(`(?i)^powered by`),
	regexp.MustCompile(`(?i)^all rights reserved$`),
	regexp.MustCompile(`^[.,;:]+$`),
}

// boilerplateTerms feed the short-document heuristic: a tiny document made
// mostly of these words is page chrome, not an article.
var boilerplateTerms = map[string]struct{}{
	"login":         {},
	"view":          {},
	"post":          {},
	"fb":            {},
	"facebook":      {},
	"comment":       {},
	"comments":      {},
	"notice":        {},
	"eu":            {},
	"subscribe":     {},
	"share":         {},
	"widget":        {},
	"advertisement": {},
	"copyright":     {},
	"cookie":        {},
	"cookies":       {},
	"privacy":       {},
	"terms":         {},
	"policy":        {},
	"follow":        {},
	"powered":       {},
	"rights":        {},
	"reserved":      {},
}
