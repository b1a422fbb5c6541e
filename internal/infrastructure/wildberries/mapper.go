package wildberries

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
)

// cardResponse is the shared envelope of the card-detail and search APIs.
type cardResponse struct {
	Data struct {
		Products []rawProduct `json:"products"`
	} `json:"data"`
}

// rawProduct tolerates the schema drift between API versions: prices may
// arrive in kopecks (priceU, salePriceU, sizes) or rubles (price, salePrice),
// ratings and feedback counts under several names.
type rawProduct struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	SubjectID     int64     `json:"subjectId"`
	PriceU        int64     `json:"priceU"`
	SalePriceU    int64     `json:"salePriceU"`
	Price         float64   `json:"price"`
	SalePrice     float64   `json:"salePrice"`
	ReviewRating  float64   `json:"reviewRating"`
	Rating        float64   `json:"rating"`
	Feedbacks     int       `json:"feedbacks"`
	FeedbackCount int       `json:"feedbackCount"`
	ReviewCount   int       `json:"reviewCount"`
	Sizes         []rawSize `json:"sizes"`
}

type rawSize struct {
	Price *rawSizePrice `json:"price"`
}

type rawSizePrice struct {
	Product int64 `json:"product"`
}

// mapProduct normalizes a raw API product into a domain record. It fails only
// when no usable name resolves; a missing price or rating yields a partial
// record instead.
func mapProduct(raw rawProduct) (*domain.ProductRecord, error) {
	name := strings.TrimSpace(raw.Name)
	if !nameResolvable(name) {
		return nil, domain.ErrProductNotFound
	}

	return &domain.ProductRecord{
		ID:        raw.ID,
		Name:      name,
		Brand:     strings.TrimSpace(raw.Brand),
		Price:     extractPrice(raw),
		Rating:    extractRating(raw),
		Feedbacks: extractFeedbacks(raw),
		SubjectID: raw.SubjectID,
		URL:       domain.ProductURL(raw.ID),
	}, nil
}

// nameResolvable rejects empty names and the template placeholders the card
// API serves while a listing loads.
func nameResolvable(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "{{:~t(") || strings.Contains(name, "unsuccessfulLoad") {
		return false
	}
	return true
}

// extractPrice resolves the price in whole rubles. Kopeck-denominated fields
// (per-size price, salePriceU, priceU) are divided by 100 here, at the
// boundary; plain ruble fields are taken at face value. Zero means no price
// was resolvable.
func extractPrice(raw rawProduct) decimal.Decimal {
	for _, size := range raw.Sizes {
		if size.Price != nil && size.Price.Product > 0 {
			return decimal.New(size.Price.Product, -2)
		}
	}
	if raw.SalePriceU > 0 {
		return decimal.New(raw.SalePriceU, -2)
	}
	if raw.PriceU > 0 {
		return decimal.New(raw.PriceU, -2)
	}
	if raw.SalePrice > 0 {
		return decimal.NewFromFloat(raw.SalePrice)
	}
	if raw.Price > 0 {
		return decimal.NewFromFloat(raw.Price)
	}
	return decimal.Zero
}

// extractRating prefers reviewRating over the legacy rating field. Values
// outside [0, 5] are spurious and discarded rather than clamped.
func extractRating(raw rawProduct) float64 {
	rating := raw.ReviewRating
	if rating == 0 {
		rating = raw.Rating
	}
	if rating < 0 || rating > 5 {
		return 0
	}
	return rating
}

func extractFeedbacks(raw rawProduct) int {
	for _, count := range []int{raw.Feedbacks, raw.FeedbackCount, raw.ReviewCount} {
		if count > 0 {
			return count
		}
	}
	return 0
}
