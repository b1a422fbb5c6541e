package domain

import "errors"

var (
	// ErrProductNotFound is returned when an article does not resolve to a product
	ErrProductNotFound = errors.New("product not found on Wildberries")

	// ErrInvalidArticle is returned when the article id is empty or non-numeric
	ErrInvalidArticle = errors.New("invalid article id")

	// ErrNoMatch is returned when no candidate satisfies the selection criteria
	ErrNoMatch = errors.New("no matching alternative found")

	// ErrPriceUnavailable is returned when the source product has no usable price
	ErrPriceUnavailable = errors.New("source product price unavailable")

	// ErrWBAPIFailure is returned when a Wildberries API request fails
	ErrWBAPIFailure = errors.New("wildberries API request failed")

	// ErrRateLimited is returned when a user exceeds the request limit
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
