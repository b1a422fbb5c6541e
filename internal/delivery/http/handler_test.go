package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wbfinder/backend/internal/domain"
	"github.com/wbfinder/backend/internal/usecase"
)

// stubCache never hits; product lookups always reach the card client.
type stubCache struct{}

func (stubCache) Get(ctx context.Context, article string) (*domain.ProductRecord, error) {
	return nil, domain.ErrCacheMiss
}

func (stubCache) Set(ctx context.Context, article string, record *domain.ProductRecord, ttl time.Duration) error {
	return nil
}

func (stubCache) Delete(ctx context.Context, article string) error { return nil }

type stubCards struct {
	record *domain.ProductRecord
	err    error
}

func (s stubCards) ProductByArticle(ctx context.Context, article string) (*domain.ProductRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

type stubSearch struct {
	hits []domain.ProductRecord
}

func (s stubSearch) Search(ctx context.Context, query string, subjectID int64) ([]domain.ProductRecord, error) {
	return s.hits, nil
}

func sourceRecord() *domain.ProductRecord {
	return &domain.ProductRecord{
		ID:        100,
		Name:      "Акустическая система стерео",
		Brand:     "Sven",
		Price:     decimal.NewFromInt(1000),
		Rating:    4.7,
		Feedbacks: 120,
		URL:       domain.ProductURL(100),
	}
}

func alternativeHits() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			ID:        1,
			Name:      "Sven акустическая система стерео",
			Brand:     "Sven",
			Price:     decimal.NewFromInt(900),
			Rating:    4.8,
			Feedbacks: 50,
			URL:       domain.ProductURL(1),
		},
	}
}

func testRouter(cards domain.CardClient, search domain.SearchClient) *gin.Engine {
	gin.SetMode(gin.TestMode)

	finder := usecase.NewFinderService(stubCache{}, cards, search, usecase.FinderConfig{})
	handler := NewHandler(finder, SearchDefaults{
		MaxPricePercent: 100,
		MinRating:       4,
		MinFeedbacks:    10,
	})

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("/:article", handler.GetProduct)
		products.POST("/similar", handler.FindSimilar)
		products.POST("/cheaper", handler.FindCheaper)
	}
	return router
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGetProduct(t *testing.T) {
	t.Run("resolves a valid article", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/products/100", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var record domain.ProductRecord
		if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if record.ID != 100 || record.Name != "Акустическая система стерео" {
			t.Errorf("record = %+v", record)
		}
	})

	t.Run("non-numeric article is a bad request", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/products/abc", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("unknown article is not found", func(t *testing.T) {
		router := testRouter(stubCards{err: domain.ErrProductNotFound}, stubSearch{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/products/100", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		router := testRouter(stubCards{err: domain.ErrWBAPIFailure}, stubSearch{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/products/100", nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", w.Code)
		}
	})
}

func TestFindCheaperEndpoint(t *testing.T) {
	t.Run("returns the match with its discount", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{hits: alternativeHits()})

		body := strings.NewReader(`{"article":"100"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/cheaper", body))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp struct {
			Source          domain.ProductRecord `json:"source"`
			Match           domain.Candidate     `json:"match"`
			DiscountPercent int                  `json:"discountPercent"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Source.ID != 100 {
			t.Errorf("source.ID = %d, want 100", resp.Source.ID)
		}
		if resp.Match.ID != 1 {
			t.Errorf("match.ID = %d, want 1", resp.Match.ID)
		}
		if resp.DiscountPercent != 10 {
			t.Errorf("discountPercent = %d, want 10", resp.DiscountPercent)
		}
	})

	t.Run("request criteria override the defaults", func(t *testing.T) {
		// An 80% ceiling puts the 900-ruble alternative out of reach.
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{hits: alternativeHits()})

		body := strings.NewReader(`{"article":"100","maxPricePercent":80}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/cheaper", body))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("no qualifying alternative is not found", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

		body := strings.NewReader(`{"article":"100"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/cheaper", body))

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("missing article is a bad request", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

		body := strings.NewReader(`{}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/cheaper", body))

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("source without a price is unprocessable", func(t *testing.T) {
		unpriced := sourceRecord()
		unpriced.Price = decimal.Zero
		router := testRouter(stubCards{record: unpriced}, stubSearch{})

		body := strings.NewReader(`{"article":"100"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/cheaper", body))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", w.Code)
		}
	})
}

func TestFindSimilarEndpoint(t *testing.T) {
	t.Run("lists scored candidates", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{hits: alternativeHits()})

		body := strings.NewReader(`{"article":"100"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/similar", body))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp struct {
			Count    int                `json:"count"`
			Products []domain.Candidate `json:"products"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Count != 1 || len(resp.Products) != 1 {
			t.Fatalf("resp = %+v, want one candidate", resp)
		}
		if resp.Products[0].Relevance < 3 {
			t.Errorf("relevance = %d, want at least medium", resp.Products[0].Relevance)
		}
	})

	t.Run("empty result is still a success", func(t *testing.T) {
		router := testRouter(stubCards{record: sourceRecord()}, stubSearch{})

		body := strings.NewReader(`{"article":"100"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/products/similar", body))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Count != 0 {
			t.Errorf("count = %d, want 0", resp.Count)
		}
	})
}
