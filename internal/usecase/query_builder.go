package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Package-level compiled regex patterns for query construction
var (
	// Matches quantity/dimension noise in product names: piece counts
	// ("5 шт", "2 pcs"), WxH dimensions ("40х30"), wattage and metric
	// lengths in both scripts ("20 Вт", "20W", "300 мм", "30 cm"),
	// parenthetical asides and trailing comma clauses.
	denoiseRegex = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:шт|вт|ватт|мм|см|м|w\b|mm\b|cm\b|m\b|pcs\b)|\d+\s*[xх]\s*\d+|подсветка|питание usb|на заказ|набор|\(.*?\)|,.*`)

	// Matches a numeric spec token usable as a standalone search term:
	// a number with a power/length unit, or a WxH dimension pair.
	specTokenRegex = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:вт|ватт|мм|см|м|w|mm|cm|m)|\d+\s*[xх]\s*\d+`)

	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// CategoryPattern maps a category phrase regex to its canonical label.
type CategoryPattern struct {
	Pattern   *regexp.Regexp
	Canonical string
}

// QueryRules holds the tunable pattern tables the query builder works from.
// They are data, not control flow, so deployments can adjust them without
// touching the algorithm.
type QueryRules struct {
	StopWords        map[string]bool
	CategoryPatterns []CategoryPattern
	SalientFeatures  []string
}

// DefaultQueryRules returns the stock rule set covering the Russian
// marketplace vocabulary plus common English product terms.
func DefaultQueryRules() QueryRules {
	return QueryRules{
		StopWords: map[string]bool{
			// Russian prepositions and conjunctions
			"для": true, "или": true, "как": true, "что": true, "при": true,
			"под": true, "над": true, "по": true, "из": true, "без": true,
			"за": true, "с": true, "на": true, "во": true, "от": true,
			"до": true, "к": true, "про": true, "же": true,
			// English prepositions and conjunctions
			"for": true, "and": true, "the": true, "with": true, "from": true,
			"over": true, "under": true, "into": true, "per": true, "via": true,
		},
		CategoryPatterns: []CategoryPattern{
			{regexp.MustCompile(`(?i)колонк[иа]\s+для\s+компьютера`), "колонки для компьютера"},
			{regexp.MustCompile(`(?i)акустическ\S*\s+систем\S*`), "акустическая система"},
			{regexp.MustCompile(`(?i)портативн\S*\s+колонк\S*`), "портативная колонка"},
			{regexp.MustCompile(`(?i)компьютерн\S*\s+акустик\S*`), "компьютерная акустика"},
			{regexp.MustCompile(`(?i)computer\s+speakers?`), "computer speakers"},
			{regexp.MustCompile(`(?i)acoustic\s+system`), "acoustic system"},
			{regexp.MustCompile(`(?i)portable\s+speaker`), "portable speaker"},
			{regexp.MustCompile(`(?i)wireless\s+speaker`), "wireless speaker"},
		},
		SalientFeatures: []string{
			"bluetooth", "беспроводн", "стерео", "сабвуфер", "портативн", "игров",
			"wireless", "stereo", "subwoofer", "portable", "gaming",
		},
	}
}

// QueryBuilder derives a category label, a ranked keyword list and an ordered
// set of search queries from a product name and brand.
type QueryBuilder struct {
	rules QueryRules
}

// NewQueryBuilder creates a query builder with the given rule tables.
func NewQueryBuilder(rules QueryRules) *QueryBuilder {
	return &QueryBuilder{rules: rules}
}

// CleanName strips quantity, dimension and packaging noise from a product
// name and collapses whitespace. The replacement runs to a fixed point, so
// cleaning an already-cleaned name returns it unchanged.
func (b *QueryBuilder) CleanName(name string) string {
	cleaned := strings.TrimSpace(multiSpaceRegex.ReplaceAllString(name, " "))
	for {
		next := denoiseRegex.ReplaceAllString(cleaned, " ")
		next = strings.TrimSpace(multiSpaceRegex.ReplaceAllString(next, " "))
		if next == cleaned {
			return cleaned
		}
		cleaned = next
	}
}

// Extract derives the category label and the ranked keyword list from a
// product name. The category comes from the first matching phrase pattern,
// falling back to the first few tokens of the cleaned name. Keywords with a
// salient feature substring are moved to the front, preserving relative
// order within each group; duplicates keep their first occurrence.
func (b *QueryBuilder) Extract(name string) (category string, keywords []string) {
	cleaned := b.CleanName(name)
	tokens := b.tokenize(cleaned)
	if len(tokens) == 0 {
		return "", nil
	}

	for _, cp := range b.rules.CategoryPatterns {
		if cp.Pattern.MatchString(cleaned) {
			category = cp.Canonical
			break
		}
	}
	if category == "" {
		n := min(len(tokens), 3)
		category = strings.Join(tokens[:n], " ")
	}

	var salient, rest []string
	for _, tok := range tokens {
		if b.isSalient(tok) {
			salient = append(salient, tok)
		} else {
			rest = append(rest, tok)
		}
	}
	keywords = dedupPreserveOrder(append(salient, rest...))

	return category, keywords
}

// BuildQueries produces the ordered search query list, most specific first:
//
//  1. brand + category + top keyword
//  2. brand + category
//  3. category + up to three keywords
//  4. category + numeric spec token from the raw name, when one exists
//  5. brand alone
//
// Queries with empty inputs are omitted; the result is deduplicated
// preserving order. An empty name yields no queries at all.
func (b *QueryBuilder) BuildQueries(name, brand string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	category, keywords := b.Extract(name)

	var queries []string
	if brand != "" && category != "" && len(keywords) > 0 {
		queries = append(queries, brand+" "+category+" "+keywords[0])
	}
	if brand != "" && category != "" {
		queries = append(queries, brand+" "+category)
	}
	if category != "" && len(keywords) > 0 {
		main := strings.Join(keywords[:min(len(keywords), 3)], " ")
		queries = append(queries, category+" "+main)
	}
	if category != "" {
		if spec := specTokenRegex.FindString(name); spec != "" {
			queries = append(queries, category+" "+spec)
		}
	}
	if brand != "" {
		queries = append(queries, brand)
	}

	return dedupPreserveOrder(queries)
}

// tokenize splits a cleaned name into words longer than two characters,
// dropping stop words. Original casing is preserved for query composition.
func (b *QueryBuilder) tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		word = strings.Trim(word, ",.!?;:-\"'")
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if b.rules.StopWords[strings.ToLower(word)] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (b *QueryBuilder) isSalient(token string) bool {
	lower := strings.ToLower(token)
	for _, feature := range b.rules.SalientFeatures {
		if strings.Contains(lower, feature) {
			return true
		}
	}
	return false
}

func dedupPreserveOrder(items []string) []string {
	var out []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
