package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jchenq/portfolio-desk/internal/api/handlers"
	custommiddleware "github.com/jchenq/portfolio-desk/internal/api/middleware"
	"github.com/jchenq/portfolio-desk/internal/config"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// Services bundles the service layer dependencies the router wires into
// handlers.
type Services struct {
	System      *service.SystemService
	Account     *service.AccountService
	Overview    *service.OverviewService
	Transaction *service.TransactionService
	Summary     *service.SummaryService
	Option      *service.OptionService
	CashFlow    *service.CashFlowService
	Dividend    *service.DividendService
	Correlation *service.CorrelationService
	Attribution *service.AttributionService
	Rebalance   *service.RebalanceService
	Alert       *service.AlertService
	Monitor     *service.Monitor
	Price       *service.PriceService
	Refresh     *service.RefreshService
	Settings    *service.SettingsService
	Report      *service.ReportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/account", func(r chi.Router) {
			accountHandler := handlers.NewAccountHandler(svc.Account, svc.Overview)
			r.Get("/", accountHandler.ListAccounts)
			r.Post("/", accountHandler.CreateAccount)
			r.Get("/overview", accountHandler.AllOverviews)
			r.Get("/{name}", accountHandler.GetAccount)
			r.Put("/{name}", accountHandler.UpdateAccount)
			r.Get("/{name}/overview", accountHandler.Overview)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction, svc.Summary)
			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Post("/preview", transactionHandler.PreviewImpact)
			r.Post("/simulate", transactionHandler.Simulate)
			r.Get("/symbols", transactionHandler.ListSymbols)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Put("/", transactionHandler.UpdateTransaction)
				r.Delete("/", transactionHandler.DeleteTransaction)
			})
		})

		r.Route("/option", func(r chi.Router) {
			optionHandler := handlers.NewOptionHandler(svc.Option)
			r.Get("/", optionHandler.ListOptions)
			r.Post("/", optionHandler.OpenOption)
			r.Get("/expiring", optionHandler.ExpiringSoon)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", optionHandler.GetOption)
				r.Put("/", optionHandler.UpdateOption)
				r.Delete("/", optionHandler.DeleteOption)
				r.Post("/close", optionHandler.CloseOption)
			})
		})

		r.Route("/cashflow", func(r chi.Router) {
			cashFlowHandler := handlers.NewCashFlowHandler(svc.CashFlow)
			r.Get("/", cashFlowHandler.ListCashFlows)
			r.Post("/", cashFlowHandler.CreateCashFlow)
			r.Get("/statement", cashFlowHandler.Statement)
			r.Get("/monthly", cashFlowHandler.MonthlySummaries)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", cashFlowHandler.GetCashFlow)
				r.Put("/", cashFlowHandler.UpdateCashFlow)
				r.Delete("/", cashFlowHandler.DeleteCashFlow)
			})
		})

		r.Route("/dividend", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)
			r.Get("/", dividendHandler.ListDividends)
			r.Post("/", dividendHandler.CreateDividend)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", dividendHandler.GetDividend)
				r.Delete("/", dividendHandler.DeleteDividend)
			})
		})

		r.Route("/summary", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(svc.Summary)
			r.Get("/stocks", summaryHandler.StockSummaries)
			r.Get("/stocks/{symbol}", summaryHandler.SymbolSummary)
			r.Get("/options", summaryHandler.OptionSummary)
			r.Get("/weights", summaryHandler.Weights)
		})

		r.Route("/analysis", func(r chi.Router) {
			analysisHandler := handlers.NewAnalysisHandler(svc.Correlation, svc.Attribution)
			r.Get("/correlation", analysisHandler.Correlation)
			r.Get("/correlation/history", analysisHandler.CorrelationHistory)
			r.Get("/attribution", analysisHandler.Attribution)
			r.Get("/attribution/history", analysisHandler.AttributionHistory)
		})

		r.Route("/target", func(r chi.Router) {
			rebalanceHandler := handlers.NewRebalanceHandler(svc.Rebalance)
			r.Get("/", rebalanceHandler.ListTargets)
			r.Put("/", rebalanceHandler.SetTarget)
			r.Delete("/{symbol}", rebalanceHandler.DeleteTarget)
		})

		r.Route("/rebalance", func(r chi.Router) {
			rebalanceHandler := handlers.NewRebalanceHandler(svc.Rebalance)
			r.Get("/plan", rebalanceHandler.Plan)
			r.Get("/limits", rebalanceHandler.CheckLimits)
		})

		r.Route("/alert", func(r chi.Router) {
			alertHandler := handlers.NewAlertHandler(svc.Alert, svc.Monitor)
			r.Get("/", alertHandler.ListAlerts)
			r.Post("/", alertHandler.CreateAlert)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", alertHandler.GetAlert)
				r.Put("/status", alertHandler.SetStatus)
				r.Delete("/", alertHandler.DeleteAlert)
			})
		})

		r.Route("/monitor", func(r chi.Router) {
			alertHandler := handlers.NewAlertHandler(svc.Alert, svc.Monitor)
			r.Post("/start", alertHandler.StartMonitor)
			r.Post("/stop", alertHandler.StopMonitor)
			r.Get("/status", alertHandler.MonitorStatus)
			r.Post("/check", alertHandler.CheckNow)
		})

		r.Route("/price", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Price, svc.Refresh, svc.Settings)
			r.Put("/manual", priceHandler.SetManualPrice)
			r.Delete("/manual/{symbol}", priceHandler.ClearManualPrice)
			r.Post("/refresh", priceHandler.RefreshAll)
			r.Post("/refresh/{symbol}", priceHandler.RefreshSymbol)
			r.Get("/settings", priceHandler.ListSettings)
			r.Put("/settings/key", priceHandler.StoreAPIKey)
			r.Put("/settings/{provider}/enabled", priceHandler.SetProviderEnabled)
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(svc.Report)
			r.Get("/monthly", reportHandler.Monthly)
		})
	})

	return r
}
