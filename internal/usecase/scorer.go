package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Scoring weights. The relevance score is an integer accumulator: brand and
// category overlap weigh more than individual keywords, and a large numeric
// spec mismatch costs two points.
const (
	brandMatchBonus     = 3
	categoryMatchBonus  = 2
	keywordMatchBonus   = 1
	specMismatchPenalty = 2

	// specMismatchRatio is the relative difference above which two numeric
	// spec values are considered incompatible.
	specMismatchRatio = 0.5
)

var (
	// Matches comparable numeric spec tokens: wattage ("20W", "20 Вт") or
	// WxH dimension pairs ("40x30"). Only the first match on each side of a
	// comparison is considered.
	specValueRegex = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:вт|ватт|w)|\d+\s*[xх]\s*\d+`)

	leadingNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// SourceProfile is the precomputed view of the source product the scorer
// compares candidates against.
type SourceProfile struct {
	Name     string
	Brand    string
	Category string
	Keywords []string
}

// RelevanceScorer computes an integer relevance score for a candidate
// against a source profile. The score may be negative.
type RelevanceScorer struct{}

// NewRelevanceScorer creates a relevance scorer.
func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{}
}

// Score applies the matching rules:
//
//   - +3 when the candidate brand contains the source brand
//   - +2 when the candidate name contains the source category
//   - +1 per source keyword found in the candidate name
//   - −2 when both names carry a numeric spec and the values differ by
//     more than half of the source value
//
// All comparisons are case-insensitive substring checks.
func (s *RelevanceScorer) Score(source SourceProfile, candidateName, candidateBrand string) int {
	name := strings.ToLower(candidateName)
	brand := strings.ToLower(candidateBrand)
	sourceBrand := strings.ToLower(source.Brand)

	score := 0

	if sourceBrand != "" && brand != "" && strings.Contains(brand, sourceBrand) {
		score += brandMatchBonus
	}

	if source.Category != "" && strings.Contains(name, strings.ToLower(source.Category)) {
		score += categoryMatchBonus
	}

	for _, keyword := range source.Keywords {
		if strings.Contains(name, strings.ToLower(keyword)) {
			score += keywordMatchBonus
		}
	}

	if specsDiverge(strings.ToLower(source.Name), name) {
		score -= specMismatchPenalty
	}

	return score
}

// specsDiverge compares the first numeric spec token of each name. It reports
// true only when both sides carry a spec, the tokens differ, and the relative
// numeric difference exceeds specMismatchRatio.
func specsDiverge(sourceName, candidateName string) bool {
	sourceSpec := specValueRegex.FindString(sourceName)
	candidateSpec := specValueRegex.FindString(candidateName)
	if sourceSpec == "" || candidateSpec == "" || sourceSpec == candidateSpec {
		return false
	}

	sourceValue, ok1 := leadingNumber(sourceSpec)
	candidateValue, ok2 := leadingNumber(candidateSpec)
	if !ok1 || !ok2 || sourceValue <= 0 {
		return false
	}

	diff := sourceValue - candidateValue
	if diff < 0 {
		diff = -diff
	}
	return diff/sourceValue > specMismatchRatio
}

func leadingNumber(spec string) (float64, bool) {
	match := leadingNumberRegex.FindString(spec)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
