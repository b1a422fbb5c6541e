package usecase

import (
	"context"
	"log"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
)

var articleRegex = regexp.MustCompile(`^\d+$`)

// FinderConfig holds configuration for the finder service.
type FinderConfig struct {
	CacheTTL           time.Duration // product-detail cache lifetime, default 6h
	SimilarLimit       int           // candidate cap for plain similarity listing, default 30
	CheaperLimit       int           // candidate cap for cheaper-alternative search, default 100
	FirstQueryMinScore int
	NextQueryMinScore  int
	EnableDebugLogging bool
}

// FinderService orchestrates a similarity search: resolve the source product
// (through the cache), derive queries, collect scored candidates and pick the
// best alternative. It is stateless per invocation apart from the injected
// product cache.
type FinderService struct {
	cache        domain.ProductCache
	cards        domain.CardClient
	builder      *QueryBuilder
	collector    *CandidateCollector
	cacheTTL     time.Duration
	similarLimit int
	cheaperLimit int
	debug        bool
}

// NewFinderService creates a finder service with its collaborators.
func NewFinderService(
	cache domain.ProductCache,
	cards domain.CardClient,
	search domain.SearchClient,
	config FinderConfig,
) *FinderService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}
	similarLimit := config.SimilarLimit
	if similarLimit <= 0 {
		similarLimit = 30
	}
	cheaperLimit := config.CheaperLimit
	if cheaperLimit <= 0 {
		cheaperLimit = 100
	}

	return &FinderService{
		cache: cache,
		cards: cards,
		builder: NewQueryBuilder(DefaultQueryRules()),
		collector: NewCandidateCollector(search, CollectorConfig{
			FirstQueryMinScore: config.FirstQueryMinScore,
			NextQueryMinScore:  config.NextQueryMinScore,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		cacheTTL:     cacheTTL,
		similarLimit: similarLimit,
		cheaperLimit: cheaperLimit,
		debug:        config.EnableDebugLogging,
	}
}

// Product resolves an article to its product record, reading through the
// cache. The article must be a non-empty numeric string; anything else is
// rejected before any network call.
func (s *FinderService) Product(ctx context.Context, article string) (*domain.ProductRecord, error) {
	if !articleRegex.MatchString(article) {
		return nil, domain.ErrInvalidArticle
	}

	if cached, err := s.cache.Get(ctx, article); err == nil && cached != nil {
		if s.debug {
			log.Printf("[FINDER] article %s served from cache", article)
		}
		return cached, nil
	}

	record, err := s.cards.ProductByArticle(ctx, article)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, article, record, s.cacheTTL); err != nil {
		// Caching is best-effort; a failed write never fails the lookup.
		log.Printf("[FINDER] failed to cache article %s: %v", article, err)
	}

	return record, nil
}

// SimilarOptions adjust a FindSimilar call. Zero values mean "no constraint"
// (and the default candidate limit).
type SimilarOptions struct {
	Limit     int
	MaxPrice  decimal.Decimal
	MinRating float64
}

// FindSimilar returns scored candidates similar to the source article,
// ordered by descending relevance. An empty result is not an error: it is
// returned when nothing relevant was found or every search query failed.
func (s *FinderService) FindSimilar(ctx context.Context, article string, opts SimilarOptions) ([]domain.Candidate, error) {
	product, err := s.Product(ctx, article)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.similarLimit
	}

	candidates := s.collect(ctx, product, limit)

	if opts.MaxPrice.IsPositive() || opts.MinRating > 0 {
		filtered := candidates[:0]
		for _, candidate := range candidates {
			if opts.MaxPrice.IsPositive() && candidate.Price.GreaterThan(opts.MaxPrice) {
				continue
			}
			if candidate.Rating < opts.MinRating {
				continue
			}
			filtered = append(filtered, candidate)
		}
		candidates = filtered
	}

	return candidates, nil
}

// FindCheaper returns the cheapest sufficiently relevant alternative to the
// source article, along with the resolved source record. ErrNoMatch means no
// candidate satisfied the criteria; ErrPriceUnavailable means the source
// product resolved without a usable price.
func (s *FinderService) FindCheaper(ctx context.Context, article string, criteria SelectionCriteria) (*domain.Candidate, *domain.ProductRecord, error) {
	product, err := s.Product(ctx, article)
	if err != nil {
		return nil, nil, err
	}
	if !product.HasPrice() {
		return nil, product, domain.ErrPriceUnavailable
	}

	candidates := s.collect(ctx, product, s.cheaperLimit)

	best := SelectBest(product, candidates, criteria)
	if best == nil {
		return nil, product, domain.ErrNoMatch
	}

	if s.debug {
		log.Printf("[FINDER] article %s: best alternative %d at %s (%d%% cheaper)",
			article, best.ID, best.Price.StringFixed(2), DiscountPercent(product.Price, best.Price))
	}

	return best, product, nil
}

func (s *FinderService) collect(ctx context.Context, product *domain.ProductRecord, limit int) []domain.Candidate {
	queries := s.builder.BuildQueries(product.Name, product.Brand)
	if len(queries) == 0 {
		return nil
	}

	category, keywords := s.builder.Extract(product.Name)
	source := SourceProfile{
		Name:     product.Name,
		Brand:    product.Brand,
		Category: category,
		Keywords: keywords,
	}

	if s.debug {
		log.Printf("[FINDER] article %d: %d queries, category %q, %d keywords",
			product.ID, len(queries), category, len(keywords))
	}

	return s.collector.Collect(ctx, queries, source, product.ID, product.SubjectID, limit)
}
