package autoheal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

const (
	selectorWeight    = 0.6
	descriptionWeight = 0.4
	tagKindBonus      = 0.1
	ambiguityMargin   = 0.05
	ambiguityPenalty  = 0.2
	maxTextLength     = 80
)

var (
	tokenSplitter  = regexp.MustCompile(`[^a-z0-9]+`)
	attrNamePrefix = regexp.MustCompile(`\[\s*[\w-]+\s*[~|^$*]?=`)
	cssIdent       = regexp.MustCompile(`^[A-Za-z_][\w-]*$`)
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "to": {}, "for": {}, "in": {}, "on": {},
	"and": {}, "with": {}, "field": {}, "element": {}, "page": {},
}

// skipped tags never hold a user-facing element
var skippedTags = map[string]struct{}{
	"html": {}, "head": {}, "body": {}, "script": {}, "style": {}, "meta": {},
	"link": {}, "title": {}, "noscript": {}, "template": {}, "br": {},
}

// tagKinds maps description words to the tags they usually describe
var tagKinds = map[string][]string{
	"button":   {"button", "input:submit", "input:button"},
	"input":    {"input", "textarea"},
	"textbox":  {"input", "textarea"},
	"link":     {"a"},
	"title":    {"h1", "h2", "h3", "h4", "span", "div"},
	"heading":  {"h1", "h2", "h3", "h4"},
	"badge":    {"span"},
	"image":    {"img"},
	"dropdown": {"select"},
	"select":   {"select"},
	"checkbox": {"input:checkbox"},
}

// Candidate is an element of the DOM snapshot scored against a broken selector
type Candidate struct {
	Selector string
	Tag      string
	Score    float64
	// Ambiguous is set when another candidate scored within the ambiguity margin of the best
	Ambiguous bool
}

// HeuristicMatch ranks the elements of html against the broken selector and its
// description. The returned candidates are sorted best first by raw score, near
// ties marked Ambiguous, and each carries a selector that is unique in the document.
func HeuristicMatch(html, selector, description string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	selTokens := selectorTokens(selector)
	descTokens := textTokens(description)
	if len(selTokens) == 0 && len(descTokens) == 0 {
		return nil, nil
	}
	kinds := lo.Uniq(lo.FlatMap(descTokens, func(tok string, _ int) []string { return tagKinds[tok] }))

	var candidates []Candidate
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if _, skip := skippedTags[tag]; skip {
			return
		}
		elemTokens := elementTokens(s, tag)
		if len(elemTokens) == 0 {
			return
		}

		score := selectorWeight*overlap(selTokens, elemTokens) + descriptionWeight*overlap(descTokens, elemTokens)
		if score == 0 {
			return
		}
		if matchesKind(s, tag, kinds) {
			score += tagKindBonus
		}

		stable, ok := stableSelector(doc, s, tag)
		if !ok {
			return
		}
		candidates = append(candidates, Candidate{Selector: stable, Tag: tag, Score: min(score, 1)})
	})

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	// near ties with the best candidate make every one of them less trustworthy
	if len(candidates) > 1 && candidates[0].Score-candidates[1].Score < ambiguityMargin {
		top := candidates[0].Score
		for i := range candidates {
			if top-candidates[i].Score < ambiguityMargin {
				candidates[i].Score = max(candidates[i].Score-ambiguityPenalty, 0)
				candidates[i].Ambiguous = true
			}
		}
	}
	return candidates, nil
}

// selectorTokens drops CSS syntax and attribute names, keeping the words of ids, classes and values
func selectorTokens(selector string) []string {
	return textTokens(attrNamePrefix.ReplaceAllString(selector, " "))
}

func textTokens(s string) []string {
	parts := tokenSplitter.Split(strings.ToLower(s), -1)
	return lo.Uniq(lo.Filter(parts, func(p string, _ int) bool {
		if len(p) < 2 {
			return false
		}
		_, stop := stopWords[p]
		return !stop
	}))
}

// elementTokens collects the words identifying an element. Hyphenated values
// also contribute their joined form, so "user-name" matches "username".
func elementTokens(s *goquery.Selection, tag string) map[string]struct{} {
	tokens := make(map[string]struct{})
	add := func(value string) {
		for _, tok := range textTokens(value) {
			tokens[tok] = struct{}{}
		}
		if joined := tokenSplitter.ReplaceAllString(strings.ToLower(value), ""); len(joined) > 1 {
			tokens[joined] = struct{}{}
		}
	}

	identified := false
	for _, attr := range []string{"id", "name", "data-test", "data-testid", "aria-label", "placeholder", "title", "alt"} {
		if v, ok := s.Attr(attr); ok && v != "" {
			add(v)
			identified = true
		}
	}
	if v, ok := s.Attr("class"); ok && v != "" {
		add(v)
		identified = true
	}
	if tag == "input" || tag == "button" {
		if v, ok := s.Attr("type"); ok {
			add(v)
		}
		if v, ok := s.Attr("value"); ok {
			add(v)
		}
		identified = true
	}
	if !identified {
		return nil
	}

	if s.Children().Length() == 0 {
		if text := strings.TrimSpace(s.Text()); text != "" && len(text) <= maxTextLength {
			add(text)
		}
	}
	tokens[tag] = struct{}{}
	return tokens
}

// overlap is the share of query tokens present on the element
func overlap(query []string, elem map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := lo.CountBy(query, func(tok string) bool {
		_, ok := elem[tok]
		return ok
	})
	return float64(hits) / float64(len(query))
}

func matchesKind(s *goquery.Selection, tag string, kinds []string) bool {
	inputType := strings.ToLower(s.AttrOr("type", "text"))
	return lo.ContainsBy(kinds, func(kind string) bool {
		k, t, typed := strings.Cut(kind, ":")
		if k != tag {
			return false
		}
		return !typed || t == inputType
	})
}

// stableSelector builds a selector that matches only s, preferring id, then
// data-test, then name, then tag with classes
func stableSelector(doc *goquery.Document, s *goquery.Selection, tag string) (string, bool) {
	var options []string
	if id, ok := s.Attr("id"); ok && cssIdent.MatchString(id) {
		options = append(options, "#"+id)
	}
	if v, ok := s.Attr("data-test"); ok && v != "" {
		options = append(options, fmt.Sprintf(`[data-test=%q]`, v))
	}
	if v, ok := s.Attr("name"); ok && v != "" {
		options = append(options, fmt.Sprintf(`%s[name=%q]`, tag, v))
	}
	if v, ok := s.Attr("class"); ok {
		classes := lo.Filter(strings.Fields(v), func(c string, _ int) bool { return cssIdent.MatchString(c) })
		if len(classes) > 0 {
			options = append(options, tag+"."+strings.Join(classes, "."))
		}
	}

	for _, sel := range options {
		if doc.Find(sel).Length() == 1 {
			return sel, true
		}
	}
	return "", false
}
