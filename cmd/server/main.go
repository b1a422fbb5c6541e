package main

import (
	"fmt"
	"log"
	"os"

	"github.com/wbfinder/backend/config"
	httpDelivery "github.com/wbfinder/backend/internal/delivery/http"
	"github.com/wbfinder/backend/internal/domain"
	"github.com/wbfinder/backend/internal/infrastructure/cache"
	"github.com/wbfinder/backend/internal/infrastructure/wildberries"
	"github.com/wbfinder/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting WBFinder Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	var productCache domain.ProductCache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedis(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		productCache = redisCache
	default:
		productCache = cache.NewMemory()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	wbClient := wildberries.NewClient(cfg.Wildberries.CardBaseURL, cfg.Wildberries.SearchBaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		wbClient.SetDebug(true)
		log.Printf("Wildberries client debug mode enabled")
	}

	log.Printf("Wildberries API: card=%s search=%s", cfg.Wildberries.CardBaseURL, cfg.Wildberries.SearchBaseURL)

	// Initialize usecase layer
	finderService := usecase.NewFinderService(
		productCache,
		wbClient,
		wbClient,
		usecase.FinderConfig{
			CacheTTL:           cfg.Cache.TTL,
			SimilarLimit:       cfg.Search.SimilarLimit,
			CheaperLimit:       cfg.Search.CheaperLimit,
			FirstQueryMinScore: cfg.Search.FirstQueryMinScore,
			NextQueryMinScore:  cfg.Search.NextQueryMinScore,
			EnableDebugLogging: cfg.Search.EnableDebugLogging,
		},
	)

	log.Printf("Search: similarLimit=%d cheaperLimit=%d minScore=%d/%d",
		cfg.Search.SimilarLimit,
		cfg.Search.CheaperLimit,
		cfg.Search.FirstQueryMinScore,
		cfg.Search.NextQueryMinScore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(finderService, httpDelivery.SearchDefaults{
		MaxPricePercent: cfg.Search.MaxPricePercent,
		MinRating:       cfg.Search.MinRating,
		MinFeedbacks:    cfg.Search.MinFeedbacks,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
