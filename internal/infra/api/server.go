package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/usecase"
)

// Server wires the HTTP surface to the use cases.
type Server struct {
	leadUC     usecase.LeadUseCase
	checkoutUC usecase.CheckoutUseCase
	serviceUC  usecase.ServiceUseCase
	contactUC  usecase.ContactUseCase
	orderUC    usecase.OrderUseCase
	products   repository.ProductRepository
	categories repository.CategoryRepository
	coupons    repository.CouponRepository

	auth           *AuthManager
	directCheckout bool
	successURL     string
	failureURL     string
	log            *zerolog.Logger
}

type ServerDeps struct {
	LeadUC     usecase.LeadUseCase
	CheckoutUC usecase.CheckoutUseCase
	ServiceUC  usecase.ServiceUseCase
	ContactUC  usecase.ContactUseCase
	OrderUC    usecase.OrderUseCase
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Coupons    repository.CouponRepository

	Auth           *AuthManager
	DirectCheckout bool
	SuccessURL     string
	FailureURL     string
	Logger         *zerolog.Logger
}

func NewServer(d ServerDeps) *Server {
	return &Server{
		leadUC:         d.LeadUC,
		checkoutUC:     d.CheckoutUC,
		serviceUC:      d.ServiceUC,
		contactUC:      d.ContactUC,
		orderUC:        d.OrderUC,
		products:       d.Products,
		categories:     d.Categories,
		coupons:        d.Coupons,
		auth:           d.Auth,
		directCheckout: d.DirectCheckout,
		successURL:     d.SuccessURL,
		failureURL:     d.FailureURL,
		log:            d.Logger,
	}
}

// Handler builds the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	optional := s.auth.OptionalAuth()
	required := s.auth.RequireAuth()
	admin := s.auth.RequireAdmin()

	r.Route("/leads", func(r chi.Router) {
		r.With(optional).Post("/", leadCreateHandler(s.leadUC, s.log))
		r.With(required).Get("/me", leadsMeHandler(s.leadUC, s.log))
		r.With(optional).Get("/{id}", leadGetHandler(s.leadUC, s.log))
		r.With(optional).Post("/{id}/pay-contact-fee/create-order", contactFeeCreateOrderHandler(s.leadUC, s.log))
		r.With(optional).Post("/{id}/pay-contact-fee/capture", contactFeeCaptureHandler(s.leadUC, s.log))
		r.With(required).Post("/{id}/pay-plan/create-order", planCreateOrderHandler(s.leadUC, s.log))
		r.With(required).Post("/{id}/pay-plan/capture", planCaptureHandler(s.leadUC, s.log))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin)
		r.Get("/leads", adminLeadsListHandler(s.leadUC, s.log))
		r.Patch("/leads/{id}/enable-checkout", adminEnableCheckoutHandler(s.leadUC, s.log))
		r.Get("/orders", adminOrdersListHandler(s.orderUC, s.log))
		r.Patch("/orders/{id}/status", adminOrderStatusHandler(s.orderUC, s.log))
		r.Post("/products", adminProductUpsertHandler(s.products, s.log))
		r.Get("/coupons", adminCouponsListHandler(s.coupons, s.log))
		r.Post("/coupons", adminCouponUpsertHandler(s.coupons, s.log))
	})

	if s.directCheckout {
		r.Route("/payments/paypal", func(r chi.Router) {
			r.Post("/create-order", checkoutCreateOrderHandler(s.checkoutUC, s.log))
			r.Post("/capture", checkoutCaptureHandler(s.checkoutUC, s.log))
		})
	}

	r.Route("/contact-requests", func(r chi.Router) {
		r.Post("/", contactRequestCreateHandler(s.contactUC, s.log))
		r.Post("/{id}/create-order", contactRequestOrderHandler(s.contactUC, s.log))
		r.Post("/{id}/capture", contactRequestCaptureHandler(s.contactUC, s.log))
	})

	r.Route("/services", func(r chi.Router) {
		r.With(required).Get("/me", servicesMeHandler(s.serviceUC, s.log))
		r.With(admin).Get("/admin", servicesAdminListHandler(s.serviceUC, s.log))
		r.With(admin).Patch("/{id}", serviceUpdateHandler(s.serviceUC, s.log))
		r.With(admin).Post("/{id}/activate-trial", serviceStatusHandler(activateTrialAction, s.serviceUC, s.log))
		r.With(admin).Post("/{id}/suspend", serviceStatusHandler(suspendAction, s.serviceUC, s.log))
		r.With(admin).Post("/{id}/cancel", serviceStatusHandler(cancelAction, s.serviceUC, s.log))
		r.With(admin).Post("/{id}/subscription/create", subscriptionCreateHandler(s.serviceUC, s.log))
		r.With(admin).Post("/{id}/subscription/trial-start", serviceStatusHandler(activateTrialAction, s.serviceUC, s.log))
		r.With(admin).Post("/{id}/subscription/cancel", subscriptionCancelHandler(s.serviceUC, s.log))
	})

	r.Get("/api/paypal/subscription/return", subscriptionReturnHandler(s.serviceUC, s.successURL, s.failureURL, s.log))

	r.Route("/store", func(r chi.Router) {
		r.Get("/products", productsListHandler(s.products, s.log))
		r.Get("/categories", categoriesListHandler(s.categories, s.log))
		r.Post("/orders", orderPlaceHandler(s.orderUC, s.log))
		r.With(required).Get("/orders/me", ordersMeHandler(s.orderUC, s.log))
	})

	return Chain(r,
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(30*time.Second),
	)
}
