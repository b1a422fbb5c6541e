package wildberries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/wbfinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Regional request parameters the public APIs expect; values mirror what the
// wildberries.ru frontend sends.
const (
	cardDest   = "-6972066"
	searchDest = "-1257786"
)

// userAgents is rotated per request; the search API throttles repeated
// identical clients harder.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
}

// Client talks to the public Wildberries card-detail and search APIs. It
// implements domain.CardClient and domain.SearchClient.
type Client struct {
	httpClient    *http.Client
	cardBaseURL   string
	searchBaseURL string
	rateLimiter   *rate.Limiter
	retryAttempts uint
	debug         bool
}

// NewClient creates a Wildberries API client.
func NewClient(cardBaseURL, searchBaseURL string) *Client {
	// The unauthenticated APIs start serving 429s past roughly 1 req/sec.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cardBaseURL:   cardBaseURL,
		searchBaseURL: searchBaseURL,
		rateLimiter:   limiter,
		retryAttempts: 3,
	}
}

// SetDebug toggles request-level debug logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// ProductByArticle fetches the product card for an article, walking an
// ordered endpoint list (v2 first, legacy v1 as fallback) until one yields a
// usable record.
func (c *Client) ProductByArticle(ctx context.Context, article string) (*domain.ProductRecord, error) {
	endpoints := []string{
		fmt.Sprintf("%s/cards/v2/detail?%s", c.cardBaseURL, cardParams(article).Encode()),
		fmt.Sprintf("%s/cards/detail?nm=%s", c.cardBaseURL, url.QueryEscape(article)),
	}

	notFound := false
	var lastErr error
	for _, endpoint := range endpoints {
		record, err := c.fetchCard(ctx, endpoint)
		if err == nil {
			if c.debug {
				log.Printf("[WB] article %s resolved via %s", article, endpoint)
			}
			return record, nil
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			notFound = true
		}
		lastErr = err
	}

	if notFound {
		return nil, domain.ErrProductNotFound
	}
	return nil, lastErr
}

// Search queries the marketplace search endpoint. Zero hits produce an empty
// slice and a nil error; the upstream result ordering is preserved.
func (c *Client) Search(ctx context.Context, query string, subjectID int64) ([]domain.ProductRecord, error) {
	params := url.Values{}
	params.Set("appType", "1")
	params.Set("curr", "rub")
	params.Set("dest", searchDest)
	params.Set("query", query)
	params.Set("resultset", "catalog")
	params.Set("sort", "popular")
	params.Set("spp", "0")
	params.Set("suppressSpellcheck", "false")
	if subjectID > 0 {
		params.Set("subject", strconv.FormatInt(subjectID, 10))
	}

	reqURL := fmt.Sprintf("%s/exactmatch/ru/common/v4/search?%s", c.searchBaseURL, params.Encode())

	var payload cardResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	records := make([]domain.ProductRecord, 0, len(payload.Data.Products))
	for _, raw := range payload.Data.Products {
		record, err := mapProduct(raw)
		if err != nil {
			// Unnamed listing; nothing to score against.
			continue
		}
		records = append(records, *record)
	}

	if c.debug {
		log.Printf("[WB] query %q: %d products", query, len(records))
	}

	return records, nil
}

func (c *Client) fetchCard(ctx context.Context, reqURL string) (*domain.ProductRecord, error) {
	var payload cardResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data.Products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return mapProduct(payload.Data.Products[0])
}

// getJSON performs a GET with rate limiting and bounded backoff retries.
// 404s and malformed payloads are not retried.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			c.setHeaders(req)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrWBAPIFailure, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("%w: read body: %v", domain.ErrWBAPIFailure, err)
			}

			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(domain.ErrProductNotFound)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%w: status %d", domain.ErrWBAPIFailure, resp.StatusCode)
			}

			if err := json.Unmarshal(body, out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("%w: decode: %v", domain.ErrWBAPIFailure, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if c.debug {
				log.Printf("[WB] retrying %s (attempt %d/%d): %v", reqURL, n+1, c.retryAttempts, err)
			}
		}),
	)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Origin", "https://www.wildberries.ru")
	req.Header.Set("Referer", "https://www.wildberries.ru/")
}

func cardParams(article string) url.Values {
	params := url.Values{}
	params.Set("appType", "1")
	params.Set("curr", "rub")
	params.Set("dest", cardDest)
	params.Set("spp", "30")
	params.Set("nm", article)
	return params
}
