package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
)

func candidate(id int64, price float64, relevance int, rating float64, feedbacks int) domain.Candidate {
	return domain.Candidate{
		ProductRecord: domain.ProductRecord{
			ID:        id,
			Name:      "candidate",
			Price:     decimal.NewFromFloat(price),
			Rating:    rating,
			Feedbacks: feedbacks,
		},
		Relevance: relevance,
	}
}

func TestSelectBest(t *testing.T) {
	source := &domain.ProductRecord{ID: 100, Price: decimal.NewFromInt(1000)}

	t.Run("cheapest high-tier candidate beats a cheaper medium one", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(1, 500, 6, 4.8, 50),
			candidate(2, 300, 5, 4.5, 30),
			candidate(3, 100, 3, 4.9, 200),
		}

		best := SelectBest(source, candidates, SelectionCriteria{})
		if best == nil {
			t.Fatal("expected a match")
		}
		if best.ID != 2 {
			t.Errorf("best.ID = %d, want 2", best.ID)
		}
	})

	t.Run("medium tier serves when no high-tier candidate survives", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(3, 100, 3, 4.9, 200),
			candidate(4, 90, 4, 4.2, 15),
		}

		best := SelectBest(source, candidates, SelectionCriteria{})
		if best == nil || best.ID != 4 {
			t.Fatalf("best = %v, want id 4", best)
		}
	})

	t.Run("price ceiling scales with the percent criterion", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(1, 950, 6, 4.8, 50),
			candidate(2, 850, 6, 4.8, 50),
		}

		best := SelectBest(source, candidates, SelectionCriteria{MaxPricePercent: 90})
		if best == nil || best.ID != 2 {
			t.Fatalf("best = %v, want id 2 under the 900 ceiling", best)
		}
	})

	t.Run("unrated candidates fail a rating requirement", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(1, 500, 6, 0, 50),
		}

		if best := SelectBest(source, candidates, SelectionCriteria{MinRating: 4}); best != nil {
			t.Errorf("best = %v, want nil", best)
		}
	})

	t.Run("feedback floor applies", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(1, 500, 6, 4.8, 3),
		}

		if best := SelectBest(source, candidates, SelectionCriteria{MinFeedbacks: 10}); best != nil {
			t.Errorf("best = %v, want nil", best)
		}
	})

	t.Run("source article never matches itself", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(100, 500, 6, 4.8, 50),
		}

		if best := SelectBest(source, candidates, SelectionCriteria{}); best != nil {
			t.Errorf("best = %v, want nil", best)
		}
	})

	t.Run("low-relevance candidates are never offered", func(t *testing.T) {
		candidates := []domain.Candidate{
			candidate(1, 50, 2, 5, 1000),
		}

		if best := SelectBest(source, candidates, SelectionCriteria{}); best != nil {
			t.Errorf("best = %v, want nil", best)
		}
	})
}

func TestMaxPrice(t *testing.T) {
	sourcePrice := decimal.NewFromInt(1000)

	t.Run("defaults to the source price", func(t *testing.T) {
		got := SelectionCriteria{}.MaxPrice(sourcePrice)
		if !got.Equal(sourcePrice) {
			t.Errorf("MaxPrice = %s, want %s", got, sourcePrice)
		}
	})

	t.Run("applies the percent", func(t *testing.T) {
		got := SelectionCriteria{MaxPricePercent: 90}.MaxPrice(sourcePrice)
		if !got.Equal(decimal.NewFromInt(900)) {
			t.Errorf("MaxPrice = %s, want 900", got)
		}
	})
}

func TestDiscountPercent(t *testing.T) {
	t.Run("whole percent of the source price", func(t *testing.T) {
		got := DiscountPercent(decimal.NewFromInt(1000), decimal.NewFromInt(900))
		if got != 10 {
			t.Errorf("DiscountPercent = %d, want 10", got)
		}
	})

	t.Run("zero for an unusable source price", func(t *testing.T) {
		got := DiscountPercent(decimal.Zero, decimal.NewFromInt(900))
		if got != 0 {
			t.Errorf("DiscountPercent = %d, want 0", got)
		}
	})
}
