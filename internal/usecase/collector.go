package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
)

// noisePriceCeiling is the price at or below which a listing is treated as
// data-quality noise rather than a real offer.
var noisePriceCeiling = decimal.NewFromInt(10)

// CollectorConfig holds the tunables of candidate collection. The first,
// most specific query historically uses a stricter admission score than the
// broader follow-up queries; both thresholds are configurable.
type CollectorConfig struct {
	FirstQueryMinScore int
	NextQueryMinScore  int
	EnableDebugLogging bool
}

// CandidateCollector runs the ordered query list against the marketplace
// search endpoint and accumulates scored, deduplicated candidates.
type CandidateCollector struct {
	search             domain.SearchClient
	scorer             *RelevanceScorer
	firstQueryMinScore int
	nextQueryMinScore  int
	debug              bool
}

// NewCandidateCollector creates a collector with the given search client.
func NewCandidateCollector(search domain.SearchClient, config CollectorConfig) *CandidateCollector {
	firstMin := config.FirstQueryMinScore
	if firstMin <= 0 {
		firstMin = 3
	}
	nextMin := config.NextQueryMinScore
	if nextMin <= 0 {
		nextMin = 2
	}

	return &CandidateCollector{
		search:             search,
		scorer:             NewRelevanceScorer(),
		firstQueryMinScore: firstMin,
		nextQueryMinScore:  nextMin,
		debug:              config.EnableDebugLogging,
	}
}

// Collect iterates the queries in order, scoring every hit against the source
// profile. Hits matching the source article, already-seen ids, noise prices,
// or scores below the per-query minimum are dropped. Collection stops once
// limit distinct candidates are gathered or the queries run out. A failed
// query is logged and skipped; if every query fails the result is simply
// empty. The returned set is ordered by descending relevance (stable).
func (c *CandidateCollector) Collect(
	ctx context.Context,
	queries []string,
	source SourceProfile,
	sourceID int64,
	subjectID int64,
	limit int,
) []domain.Candidate {
	if limit <= 0 || len(queries) == 0 {
		return nil
	}

	var collected []domain.Candidate
	seen := map[int64]bool{sourceID: true}

	for i, query := range queries {
		if len(collected) >= limit {
			break
		}
		select {
		case <-ctx.Done():
			return collected
		default:
		}

		products, err := c.search.Search(ctx, query, subjectID)
		if err != nil {
			log.Printf("[COLLECT] query %q failed, skipping: %v", query, err)
			continue
		}

		minScore := c.nextQueryMinScore
		if i == 0 {
			minScore = c.firstQueryMinScore
		}

		added := 0
		for _, product := range products {
			if seen[product.ID] {
				continue
			}
			if !product.Price.GreaterThan(noisePriceCeiling) {
				continue
			}

			score := c.scorer.Score(source, product.Name, product.Brand)
			if score < minScore {
				continue
			}

			seen[product.ID] = true
			collected = append(collected, domain.Candidate{ProductRecord: product, Relevance: score})
			added++
			if len(collected) >= limit {
				break
			}
		}

		if c.debug {
			log.Printf("[COLLECT] query %q: %d admitted (min score %d), %d total", query, added, minScore, len(collected))
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Relevance > collected[j].Relevance
	})

	return collected
}
