package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/wbfinder/backend/config"
	"github.com/wbfinder/backend/internal/domain"
	"github.com/wbfinder/backend/internal/infrastructure/cache"
	"github.com/wbfinder/backend/internal/infrastructure/wildberries"
	"github.com/wbfinder/backend/internal/usecase"
)

type CLI struct {
	Article string `arg:"" help:"Wildberries article number of the source product"`

	Percent   int     `help:"Price ceiling as a percent of the source price" default:"100"`
	Rating    float64 `help:"Minimum rating for alternatives" default:"4.0"`
	Feedbacks int     `help:"Minimum review count for alternatives" default:"10"`
	Timeout   int     `help:"Overall timeout in seconds" default:"60"`
	LogLevel  string  `help:"Log level (debug, info, warn, error)" default:"info"`
	Debug     bool    `help:"Log every scored candidate" default:"false"`
}

func (c *CLI) Run() error {
	logger := log.New(os.Stderr)

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		logger.Fatal("Invalid log level", "error", err)
	}
	logger.SetLevel(level)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Timeout)*time.Second)
	defer cancel()

	wbClient := wildberries.NewClient(cfg.Wildberries.CardBaseURL, cfg.Wildberries.SearchBaseURL)
	if c.Debug {
		wbClient.SetDebug(true)
	}

	finder := usecase.NewFinderService(
		cache.NewMemory(),
		wbClient,
		wbClient,
		usecase.FinderConfig{
			CacheTTL:           cfg.Cache.TTL,
			SimilarLimit:       cfg.Search.SimilarLimit,
			CheaperLimit:       cfg.Search.CheaperLimit,
			FirstQueryMinScore: cfg.Search.FirstQueryMinScore,
			NextQueryMinScore:  cfg.Search.NextQueryMinScore,
			EnableDebugLogging: c.Debug,
		},
	)

	logger.Info("Searching for a cheaper alternative",
		"article", c.Article,
		"percent", c.Percent,
		"rating", c.Rating,
		"feedbacks", c.Feedbacks)

	best, source, err := finder.FindCheaper(ctx, c.Article, usecase.SelectionCriteria{
		MaxPricePercent: c.Percent,
		MinRating:       c.Rating,
		MinFeedbacks:    c.Feedbacks,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			fmt.Printf("No cheaper alternative found for %s (%s)\n", source.Name, source.Price.StringFixed(2))
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("Source:      %s\n", source.Name)
	fmt.Printf("  Brand:     %s\n", source.Brand)
	fmt.Printf("  Price:     %s RUB\n", source.Price.StringFixed(2))
	fmt.Printf("  URL:       %s\n", source.URL)
	fmt.Println()
	fmt.Printf("Alternative: %s\n", best.Name)
	fmt.Printf("  Brand:     %s\n", best.Brand)
	fmt.Printf("  Price:     %s RUB (-%d%%)\n", best.Price.StringFixed(2), usecase.DiscountPercent(source.Price, best.Price))
	fmt.Printf("  Rating:    %.1f (%d reviews)\n", best.Rating, best.Feedbacks)
	fmt.Printf("  Relevance: %s\n", best.Tier())
	fmt.Printf("  URL:       %s\n", best.URL)

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("findcheaper"),
		kong.Description("Find a cheaper Wildberries alternative for a product article"),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
