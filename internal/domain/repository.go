package domain

import (
	"context"
	"time"
)

// CardClient resolves an article id to a normalized product record. A partial
// record (missing price or rating) is still a success as long as the name
// resolved; implementations fail only when no name can be determined.
type CardClient interface {
	ProductByArticle(ctx context.Context, article string) (*ProductRecord, error)
}

// SearchClient queries the marketplace search endpoint. A zero-hit response is
// an empty slice with a nil error, preserving the upstream result ordering.
// subjectID, when positive, is passed as a category filter hint.
type SearchClient interface {
	Search(ctx context.Context, query string, subjectID int64) ([]ProductRecord, error)
}

// ProductCache is a read-through cache of product records by article id.
// Implementations must be safe for concurrent use.
type ProductCache interface {
	Get(ctx context.Context, article string) (*ProductRecord, error)
	Set(ctx context.Context, article string, record *ProductRecord, ttl time.Duration) error
	Delete(ctx context.Context, article string) error
}
