package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
	"github.com/wbfinder/backend/internal/usecase"
)

// SearchDefaults are the selection thresholds applied when a request leaves
// them unset.
type SearchDefaults struct {
	MaxPricePercent int
	MinRating       float64
	MinFeedbacks    int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	finder   *usecase.FinderService
	defaults SearchDefaults
}

// NewHandler creates a new HTTP handler
func NewHandler(finder *usecase.FinderService, defaults SearchDefaults) *Handler {
	return &Handler{
		finder:   finder,
		defaults: defaults,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "wbfinder-backend",
		"version": "1.0.0",
	})
}

// GetProduct resolves an article number to its product card.
func (h *Handler) GetProduct(c *gin.Context) {
	record, err := h.finder.Product(c.Request.Context(), c.Param("article"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

type similarRequest struct {
	Article   string  `json:"article" binding:"required"`
	Limit     int     `json:"limit"`
	MaxPrice  float64 `json:"maxPrice"`
	MinRating float64 `json:"minRating"`
}

// FindSimilar returns scored candidates similar to the source article.
func (h *Handler) FindSimilar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := usecase.SimilarOptions{
		Limit:     req.Limit,
		MinRating: req.MinRating,
	}
	if req.MaxPrice > 0 {
		opts.MaxPrice = decimal.NewFromFloat(req.MaxPrice)
	}

	candidates, err := h.finder.FindSimilar(c.Request.Context(), req.Article, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(candidates),
		"products": candidates,
	})
}

type cheaperRequest struct {
	Article         string   `json:"article" binding:"required"`
	MaxPricePercent *int     `json:"maxPricePercent"`
	MinRating       *float64 `json:"minRating"`
	MinFeedbacks    *int     `json:"minFeedbacks"`
}

// FindCheaper returns the cheapest sufficiently relevant alternative to the
// source article, or 404 when none qualifies.
func (h *Handler) FindCheaper(c *gin.Context) {
	var req cheaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criteria := usecase.SelectionCriteria{
		MaxPricePercent: h.defaults.MaxPricePercent,
		MinRating:       h.defaults.MinRating,
		MinFeedbacks:    h.defaults.MinFeedbacks,
	}
	if req.MaxPricePercent != nil {
		criteria.MaxPricePercent = *req.MaxPricePercent
	}
	if req.MinRating != nil {
		criteria.MinRating = *req.MinRating
	}
	if req.MinFeedbacks != nil {
		criteria.MinFeedbacks = *req.MinFeedbacks
	}

	best, source, err := h.finder.FindCheaper(c.Request.Context(), req.Article, criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":          source,
		"match":           best,
		"discountPercent": usecase.DiscountPercent(source.Price, best.Price),
	})
}

// respondError maps sentinel errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArticle):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrNoMatch):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPriceUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWBAPIFailure):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
