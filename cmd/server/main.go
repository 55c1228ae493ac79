package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jchenq/portfolio-desk/internal/api"
	"github.com/jchenq/portfolio-desk/internal/config"
	"github.com/jchenq/portfolio-desk/internal/database"
	"github.com/jchenq/portfolio-desk/internal/notify"
	"github.com/jchenq/portfolio-desk/internal/pricing"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	cashFlowRepo := repository.NewCashFlowRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Price pipeline: live quotes with a short cache, manual overrides
	// taking precedence.
	financeClient := pricing.NewFinanceClient()
	priceCache := pricing.NewService(
		financeClient,
		priceRepo,
		time.Duration(cfg.Pricing.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Monitor.FetchTimeoutSeconds)*time.Second,
	)

	// API keys for price providers are encrypted at rest. Without a
	// configured key the keyring is ephemeral, so stored keys do not
	// survive a restart.
	var keyring *pricing.Keyring
	if cfg.Pricing.FernetKey != "" {
		keyring, err = pricing.NewKeyring(cfg.Pricing.FernetKey)
		if err != nil {
			log.Fatalf("Invalid PRICE_SOURCE_FERNET_KEY: %v", err)
		}
	} else {
		keyring, err = pricing.GenerateKeyring()
		if err != nil {
			log.Fatalf("Failed to generate keyring: %v", err)
		}
		log.Println("PRICE_SOURCE_FERNET_KEY not set; using ephemeral keyring")
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTP.Host != "" {
		notifier = notify.EmailNotifier{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.SenderEmail,
			Password: cfg.SMTP.SenderPassword,
			From:     cfg.SMTP.SenderEmail,
		}
	}

	// Create services
	systemService := service.NewSystemService(db)
	accountService := service.NewAccountService(accountRepo)
	transactionService := service.NewTransactionService(transactionRepo, cashFlowRepo, accountRepo)
	optionService := service.NewOptionService(optionRepo, cashFlowRepo, accountRepo)
	cashFlowService := service.NewCashFlowService(cashFlowRepo, accountRepo)
	dividendService := service.NewDividendService(dividendRepo, cashFlowRepo, accountRepo)
	summaryService := service.NewSummaryService(transactionRepo, optionRepo, accountRepo, priceCache)
	overviewService := service.NewOverviewService(accountRepo, optionRepo, cashFlowRepo, dividendRepo, summaryService)
	correlationService := service.NewCorrelationService(
		priceRepo,
		snapshotRepo,
		summaryService,
		cfg.Analysis.CorrelationThreshold,
		cfg.Analysis.LookbackDays,
	)
	attributionService := service.NewAttributionService(
		priceRepo,
		optionRepo,
		accountRepo,
		snapshotRepo,
		transactionRepo,
		cfg.Analysis.DefaultBenchmark,
	)
	rebalanceService := service.NewRebalanceService(targetRepo, accountRepo, summaryService, overviewService)
	alertService := service.NewAlertService(alertRepo, priceCache, summaryService, notifier)
	monitor := service.NewMonitor(alertService, cfg.Monitor)
	priceService := service.NewPriceService(priceRepo, priceCache)
	refreshService := service.NewRefreshService(
		priceRepo,
		transactionRepo,
		priceCache,
		cfg.Analysis.DefaultBenchmark,
		cfg.Analysis.LookbackDays,
	)
	settingsService := service.NewSettingsService(settingsRepo, keyring)
	reportService := service.NewReportService(transactionRepo, optionRepo, cashFlowRepo, cashFlowService)

	// Background workers
	if cfg.Monitor.AutoStart {
		monitor.Start()
	}

	scheduler, err := service.NewScheduler(refreshService, cfg.Pricing.RefreshCron)
	if err != nil {
		log.Fatalf("Invalid PRICE_REFRESH_CRON: %v", err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Account:     accountService,
		Overview:    overviewService,
		Transaction: transactionService,
		Summary:     summaryService,
		Option:      optionService,
		CashFlow:    cashFlowService,
		Dividend:    dividendService,
		Correlation: correlationService,
		Attribution: attributionService,
		Rebalance:   rebalanceService,
		Alert:       alertService,
		Monitor:     monitor,
		Price:       priceService,
		Refresh:     refreshService,
		Settings:    settingsService,
		Report:      reportService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	monitor.Stop()
	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
