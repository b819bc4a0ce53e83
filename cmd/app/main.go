package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"service-sales-platform/internal/config"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/adapter"
	"service-sales-platform/internal/infra/api"
	pg "service-sales-platform/internal/infra/db/postgres"
	"service-sales-platform/internal/infra/logging"
	"service-sales-platform/internal/infra/metrics"
	"service-sales-platform/internal/infra/notify"
	"service-sales-platform/internal/infra/payment"
	red "service-sales-platform/internal/infra/redis"
	"service-sales-platform/internal/infra/sched"
	"service-sales-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional; capture locking degrades to single-instance) ----
	var locker usecase.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		locker = red.NewLocker(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; capture locking disabled")
	}

	// ---- Catalog ----
	pkgs := make([]model.Package, 0, len(cfg.Catalog.Packages))
	for _, p := range cfg.Catalog.Packages {
		pkgs = append(pkgs, model.Package{
			ID:           p.ID,
			Name:         p.Name,
			Plan:         model.Plan(p.Plan),
			OneTimePrice: p.OneTimePrice,
		})
	}
	catalog := model.NewCatalog(cfg.Catalog.Currency, cfg.Catalog.ContactFee, pkgs)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev && cfg.PayPal.ClientID == "" {
		gateway = payment.NewNoopGateway()
		logger.Warn().Msg("paypal not configured; using noop gateway")
	} else {
		gateway, err = payment.NewPayPalGateway(cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPal.Sandbox)
		if err != nil {
			logger.Fatal().Err(err).Msg("paypal gateway")
		}
	}

	// ---- Repositories ----
	leadRepo := pg.NewLeadRepo(pool)
	serviceRepo := pg.NewServiceRepo(pool)
	checkoutRepo := pg.NewCheckoutRepo(pool)
	contactRepo := pg.NewContactRequestRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	couponRepo := pg.NewCouponRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	categoryRepo := pg.NewCategoryRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Notifications ----
	var notifier adapter.Notifier = notify.NoopNotifier{}
	if cfg.Notify.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
	}
	var mailer adapter.Mailer = notify.NoopMailer{}
	if cfg.Notify.PostmarkToken != "" {
		mailer, err = notify.NewPostmarkMailer(cfg.Notify.PostmarkToken, cfg.Notify.EmailFrom)
		if err != nil {
			logger.Fatal().Err(err).Msg("postmark mailer")
		}
	}
	notifUC := usecase.NewNotificationUseCase(notifier, mailer, cfg.Notify.EmailFrom, logger)

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(checkoutRepo, serviceRepo, gateway, txManager, catalog, notifUC, logger)
	leadUC := usecase.NewLeadUseCase(leadRepo, checkoutRepo, gateway, checkoutUC, catalog, notifUC, locker, usecase.LeadFunnelConfig{
		PublicBaseURL:     cfg.Server.PublicBaseURL,
		RequireGuestToken: cfg.Leads.RequireGuestToken,
	}, logger)
	serviceUC := usecase.NewServiceUseCase(serviceRepo, gateway, usecase.SubscriptionConfig{
		PlanID:     cfg.PayPal.SubscriptionPlanID,
		ReturnURL:  cfg.Server.PublicBaseURL + "/api/paypal/subscription/return",
		CancelURL:  cfg.PayPal.FailureURL,
		SuccessURL: cfg.PayPal.SuccessURL,
		FailureURL: cfg.PayPal.FailureURL,
	}, logger)
	contactUC := usecase.NewContactUseCase(contactRepo, gateway, catalog, cfg.Server.PublicBaseURL, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, productRepo, couponRepo, logger)

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.AdminEmails)
	srv := api.NewServer(api.ServerDeps{
		LeadUC:         leadUC,
		CheckoutUC:     checkoutUC,
		ServiceUC:      serviceUC,
		ContactUC:      contactUC,
		OrderUC:        orderUC,
		Products:       productRepo,
		Categories:     categoryRepo,
		Coupons:        couponRepo,
		Auth:           auth,
		DirectCheckout: cfg.Checkout.DirectEnabled,
		SuccessURL:     cfg.PayPal.SuccessURL,
		FailureURL:     cfg.PayPal.FailureURL,
		Logger:         logger,
	})
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: srv.Handler()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Capture reconciler ----
	reconciler := sched.NewCaptureReconciler(checkoutUC, checkoutRepo, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go reconciler.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Shutdown(context.Background())
}
