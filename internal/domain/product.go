package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Relevance tier boundaries. A candidate needs at least mediumRelevanceMin
// to survive the selection filter at all.
const (
	highRelevanceMin   = 5
	mediumRelevanceMin = 3
)

// RelevanceTier is a coarse bucket derived from a candidate's relevance score.
type RelevanceTier int

const (
	TierExcluded RelevanceTier = iota
	TierMedium
	TierHigh
)

func (t RelevanceTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "excluded"
	}
}

// ProductRecord is a normalized Wildberries product. Price is always in whole
// rubles: kopeck-denominated upstream fields are divided by 100 at the mapper
// boundary and never re-derived downstream. Rating is 0 when the upstream
// payload omits it or reports a value outside [0, 5].
type ProductRecord struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Rating    float64         `json:"rating,omitempty"`
	Feedbacks int             `json:"feedbacks"`
	SubjectID int64           `json:"subjectId,omitempty"`
	URL       string          `json:"url"`
}

// HasPrice reports whether a usable price was resolved for the product.
func (p *ProductRecord) HasPrice() bool {
	return p.Price.IsPositive()
}

// Candidate is a ProductRecord found during a similarity search, annotated
// with its relevance score. Candidates live for one search session only.
type Candidate struct {
	ProductRecord
	Relevance int `json:"relevance"`
}

// Tier classifies the candidate by its relevance score.
func (c *Candidate) Tier() RelevanceTier {
	switch {
	case c.Relevance >= highRelevanceMin:
		return TierHigh
	case c.Relevance >= mediumRelevanceMin:
		return TierMedium
	default:
		return TierExcluded
	}
}

// ProductURL builds the public catalog URL for an article id.
func ProductURL(id int64) string {
	return fmt.Sprintf("https://www.wildberries.ru/catalog/%d/detail.aspx", id)
}
