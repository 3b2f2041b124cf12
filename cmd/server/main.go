package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"farmhelp/config"
	"farmhelp/database"
	"farmhelp/pkg/ai"
	"farmhelp/pkg/clock"
	"farmhelp/pkg/datagov"
	"farmhelp/pkg/importer"
	"farmhelp/pkg/reference"

	priceRepo "farmhelp/pkg/price/repository"
	priceRepoImp "farmhelp/pkg/price/repositoryImp"
	priceSvc "farmhelp/pkg/price/service"
	priceSvcImp "farmhelp/pkg/price/serviceImp"

	refreshSvc "farmhelp/pkg/refresh/service"
	refreshSvcImp "farmhelp/pkg/refresh/serviceImp"
)

// app holds everything the subcommands share.
type app struct {
	cfg     config.AppConfig
	db      *gorm.DB
	clock   clock.Clock
	tables  *reference.Tables
	feed    *datagov.Client
	repo    priceRepo.PriceRepository
	im      *importer.Importer
	prices  priceSvc.PriceService
	refresh refreshSvc.RefreshService
}

func newApp() (*app, error) {
	cfg := config.Load()
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		time.Local = loc
	} else {
		log.Printf("[cfg] TZ %q: %v", cfg.Timezone, err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	tables, err := reference.LoadFromFiles(cfg.CoordsCSV, cfg.SeasonalCSV, cfg.RefXLSX)
	if err != nil {
		log.Printf("[ref] warn: %v; using built-in tables", err)
		tables = reference.Default()
	}
	coords, storage, seasonal := tables.Counts()
	log.Printf("[ref] coordinates=%d storage=%d seasonal=%d", coords, storage, seasonal)

	clk := clock.NewRealClock()
	feed := datagov.New(datagov.Options{
		BaseURL:    cfg.DataGovURL,
		APIKey:     cfg.DataGovAPIKey,
		RatePerSec: cfg.DataGovRatePerSec,
		Cache:      datagov.NewCache(time.Duration(cfg.CacheHours)*time.Hour, clk),
		Clock:      clk,
	})
	if !feed.Configured() {
		log.Printf("[datagov] DATA_GOV_IN_API_KEY not set; serving local data only")
	}

	var llm ai.Client
	if cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "" {
		llm = ai.NewOpenAI(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel)
	} else {
		llm = ai.NewMock()
	}

	repo := priceRepoImp.New(db)
	im := importer.New(repo)
	return &app{
		cfg:     cfg,
		db:      db,
		clock:   clk,
		tables:  tables,
		feed:    feed,
		repo:    repo,
		im:      im,
		prices:  priceSvcImp.NewPriceService(repo, tables, clk, feed, llm),
		refresh: refreshSvcImp.NewRefreshService(feed, im),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		log.Printf("[db] close: %v", err)
	}
}

func main() {
	root := &cobra.Command{
		Use:           "farmhelp",
		Short:         "Mandi price analytics and sell advisory backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newSeedCommand(),
		newImportCommand(),
		newRefreshCommand(),
		newCleanupCommand(),
	)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
