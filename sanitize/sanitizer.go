package sanitize

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	// ErrContentTooShort marks bodies below the minimum length after cleaning.
	ErrContentTooShort = errors.New("content below minimum length")
	// ErrBoilerplateOnly marks short bodies dominated by chrome vocabulary.
	ErrBoilerplateOnly = errors.New("content is boilerplate")
)

// boilerplateCheckLimit bounds the keyword-dominance heuristic to short
// documents; a real article of any length won't trip it.
const boilerplateCheckLimit = 200

// boilerplateRatioCutoff is the recognized-keyword fraction above which a
// short document is rejected outright.
const boilerplateRatioCutoff = 0.5

// Sanitizer turns raw article markup (or a plain snippet) into readable
// plain text, dropping candidates that come out as chrome or stubs.
type Sanitizer struct {
	policy    *bluemonday.Policy
	minLength int
}

// New builds a sanitizer that rejects output shorter than minLength.
func New(minLength int) *Sanitizer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(
		"p", "b", "i", "em", "strong", "ul", "ol", "li", "br", "a",
		"blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "span",
		"div", "img", "figure", "figcaption",
	)
	policy.AllowAttrs("href", "name", "target", "rel").OnElements("a")
	policy.AllowAttrs("src", "alt", "width", "height").OnElements("img")

	return &Sanitizer{policy: policy, minLength: minLength}
}

// Clean runs the full pipeline: structural boilerplate removal, markup
// allowlisting, block reflow to text, whitespace normalization, line-level
// filtering, and the short-document boilerplate heuristic.
func (s *Sanitizer) Clean(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrContentTooShort
	}

	markup := removeBoilerplateBlocks(raw)
	markup = s.policy.Sanitize(markup)

	text := normalize(reflow(markup))

	length := utf8.RuneCountInString(text)
	if length < boilerplateCheckLimit && boilerplateRatio(text) >= boilerplateRatioCutoff {
		return "", ErrBoilerplateOnly
	}
	if length < s.minLength {
		return "", ErrContentTooShort
	}

	return text, nil
}

// removeBoilerplateBlocks strips known chrome by structure and by block text
// while the markup is still a tree. Parse failures fall back to the input;
// the allowlist pass still runs on it.
func removeBoilerplateBlocks(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	for _, sel := range boilerplateSelectors {
		doc.Find(sel).Remove()
	}

	// Remove only the innermost matching block. An ancestor whose aggregate
	// text matches through a removable descendant must stay, or the article
	// prose sharing that wrapper would vanish with the notice.
	doc.Find("div, section, aside, p, table").Each(func(_ int, el *goquery.Selection) {
		if !matchesBlockPattern(el.Text()) {
			return
		}

		descendantMatches := false
		el.Find("div, section, aside, p, table").EachWithBreak(func(_ int, d *goquery.Selection) bool {
			if matchesBlockPattern(d.Text()) {
				descendantMatches = true
				return false
			}
			return true
		})
		if descendantMatches {
			return
		}

		el.Remove()
	})

	inner, err := doc.Find("body").Html()
	if err != nil {
		return raw
	}
	return inner
}

// reflow flattens allowlisted markup into text with intentional whitespace:
// blank lines around paragraphs and headings, a bullet per list item,
// quotation marks around block quotes.
func reflow(markup string) string {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	var b strings.Builder
	walk(root, &b)
	return b.String()
}

func walk(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteString("\n")
			return
		case "li":
			b.WriteString("\n- ")
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "div", "ul", "ol", "figure", "figcaption":
			b.WriteString("\n\n")
		case "blockquote":
			b.WriteString("\n\n\"")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, b)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "div", "ul", "ol", "figure", "figcaption":
			b.WriteString("\n\n")
		case "blockquote":
			b.WriteString("\"\n\n")
		}
	}
}

// normalize collapses run-on whitespace to single spaces, keeps at most one
// blank line between paragraphs, and drops lines matching the line-level
// boilerplate set.
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
				blank = true
			}
			continue
		}
		if matchesLinePattern(line) {
			continue
		}
		out = append(out, line)
		blank = false
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

func matchesBlockPattern(text string) bool {
	text = strings.TrimSpace(text)
	for _, re := range blockBoilerplatePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func matchesLinePattern(line string) bool {
	for _, re := range linePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// boilerplateRatio reports what fraction of the document's words belong to
// the chrome vocabulary.
func boilerplateRatio(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	hits := 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if _, ok := boilerplateTerms[w]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(words))
}
