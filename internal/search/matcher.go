package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/itcaat/olxsearch/internal/models"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// stopWords are Portuguese and English function words ignored in queries.
var stopWords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "em": {}, "no": {}, "na": {}, "nos": {}, "nas": {},
	"um": {}, "uma": {}, "uns": {}, "umas": {}, "os": {}, "as": {}, "ao": {}, "aos": {}, "com": {}, "sem": {},
	"para": {}, "pra": {}, "por": {}, "pelo": {}, "pela": {}, "que": {}, "ou": {}, "se": {}, "mais": {},
	"the": {}, "and": {}, "or": {}, "of": {}, "for": {}, "with": {}, "in": {}, "on": {}, "to": {},
	"an": {}, "at": {}, "by": {}, "from": {}, "is": {},
}

// Matcher keeps items whose text contains every significant query token.
type Matcher struct {
	tokens []string
}

// NewMatcher tokenizes query once.
func NewMatcher(query string) *Matcher {
	return &Matcher{tokens: Tokenize(query)}
}

// Tokens returns the significant tokens of the query.
func (m *Matcher) Tokens() []string {
	return m.tokens
}

// Matches reports whether all tokens occur in the item's title, description
// and attribute values. A query without significant tokens matches anything.
func (m *Matcher) Matches(item *models.Item) bool {
	if len(m.tokens) == 0 {
		return true
	}

	corpus := itemCorpus(item)
	for _, tok := range m.tokens {
		if !strings.Contains(corpus, tok) {
			return false
		}
	}
	return true
}

// Filter returns the matching items in their original order.
func (m *Matcher) Filter(items []models.Item) []models.Item {
	kept := make([]models.Item, 0, len(items))
	for i := range items {
		if m.Matches(&items[i]) {
			kept = append(kept, items[i])
		}
	}
	return kept
}

// Tokenize folds case and diacritics, splits on non-word runs and drops
// one-letter tokens and stop words.
func Tokenize(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(normalizeText(query)) {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func itemCorpus(item *models.Item) string {
	parts := []string{item.Title}
	if item.Description != nil {
		parts = append(parts, *item.Description)
	}
	for _, p := range item.Properties {
		parts = append(parts, p.Value)
	}
	for _, a := range item.Attributes {
		parts = append(parts, a.Value)
	}
	return normalizeText(strings.Join(parts, " "))
}

func normalizeText(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.TrimSpace(nonWord.ReplaceAllString(folded, " "))
}
