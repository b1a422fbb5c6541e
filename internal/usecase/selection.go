package usecase

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
)

// SelectionCriteria are the business constraints a candidate must satisfy to
// be offered as an alternative. A candidate missing its rating or feedback
// count is treated as having 0, so it passes only when the threshold is <= 0.
type SelectionCriteria struct {
	MaxPricePercent int     // price ceiling as percent of the source price; <=0 means 100
	MinRating       float64 // minimum rating, 0..5
	MinFeedbacks    int     // minimum feedback count
}

func (c SelectionCriteria) normalized() SelectionCriteria {
	if c.MaxPricePercent <= 0 {
		c.MaxPricePercent = 100
	}
	return c
}

// MaxPrice computes the absolute price ceiling for a source price.
func (c SelectionCriteria) MaxPrice(sourcePrice decimal.Decimal) decimal.Decimal {
	c = c.normalized()
	return sourcePrice.Mul(decimal.NewFromInt(int64(c.MaxPricePercent))).Div(decimal.NewFromInt(100))
}

// SelectBest filters candidates by the criteria, partitions the survivors
// into relevance tiers, sorts each tier by price ascending, and returns the
// cheapest member of the highest non-empty tier. Low-relevance candidates
// are discarded. Returns nil when nothing qualifies.
func SelectBest(source *domain.ProductRecord, candidates []domain.Candidate, criteria SelectionCriteria) *domain.Candidate {
	criteria = criteria.normalized()
	maxPrice := criteria.MaxPrice(source.Price)

	var high, medium []domain.Candidate
	for _, candidate := range candidates {
		if candidate.ID == source.ID {
			continue
		}
		if candidate.Price.GreaterThan(maxPrice) {
			continue
		}
		if candidate.Rating < criteria.MinRating || candidate.Feedbacks < criteria.MinFeedbacks {
			continue
		}

		switch candidate.Tier() {
		case domain.TierHigh:
			high = append(high, candidate)
		case domain.TierMedium:
			medium = append(medium, candidate)
		}
	}

	sortByPriceAsc(high)
	sortByPriceAsc(medium)

	ranked := append(high, medium...)
	if len(ranked) == 0 {
		return nil
	}

	best := ranked[0]
	return &best
}

// DiscountPercent returns how much cheaper the alternative is, as a whole
// percent of the source price. Zero when the source price is unusable.
func DiscountPercent(sourcePrice, alternativePrice decimal.Decimal) int {
	if !sourcePrice.IsPositive() {
		return 0
	}
	ratio := alternativePrice.Div(sourcePrice)
	return int(decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100)).IntPart())
}

func sortByPriceAsc(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Price.LessThan(candidates[j].Price)
	})
}
