package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/infra/metrics"
	"service-sales-platform/internal/usecase"
)

type checkoutCreateRequest struct {
	PackageID      string  `json:"package_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Whatsapp       string  `json:"whatsapp"`
	AlternateEmail string  `json:"alternate_email"`
	Idea           string  `json:"idea"`
	Amount         float64 `json:"amount"`
	ReturnURL      string  `json:"return_url"`
	CancelURL      string  `json:"cancel_url"`
}

func checkoutCreateOrderHandler(uc usecase.CheckoutUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		order, err := uc.CreateOrder(r.Context(), usecase.CreateCheckoutInput{
			PackageID:      req.PackageID,
			Name:           req.Name,
			Email:          req.Email,
			Whatsapp:       req.Whatsapp,
			AlternateEmail: req.AlternateEmail,
			Idea:           req.Idea,
			Amount:         req.Amount,
			ReturnURL:      req.ReturnURL,
			CancelURL:      req.CancelURL,
		})
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentOrder("checkout")
		writeJSON(w, http.StatusOK, struct {
			OrderID     string `json:"order_id"`
			ApproveURL  string `json:"approve_url"`
			PackageName string `json:"package_name"`
		}{order.OrderID, order.ApproveURL, order.PackageName})
	}
}

func checkoutCaptureHandler(uc usecase.CheckoutUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		res, err := uc.CaptureOrder(r.Context(), req.OrderID)
		if err != nil {
			metrics.IncPaymentCapture("checkout", "failed")
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentCapture("checkout", "succeeded")
		writeJSON(w, http.StatusOK, struct {
			ServiceID string `json:"service_id"`
			Email     string `json:"email"`
			Whatsapp  string `json:"whatsapp"`
		}{res.ServiceID, res.Email, res.Whatsapp})
	}
}

type contactRequestCreate struct {
	PackageID string `json:"package_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

func contactRequestCreateHandler(uc usecase.ContactUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequestCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		cr, err := uc.Create(r.Context(), req.PackageID, req.Name, req.Email, req.Message)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, cr)
	}
}

func contactRequestOrderHandler(uc usecase.ContactUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		order, err := uc.CreatePaymentOrder(r.Context(), id)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentOrder("contact_request")
		writeJSON(w, http.StatusOK, orderResponse{OrderID: order.OrderID, ApproveURL: order.ApproveURL})
	}
}

func contactRequestCaptureHandler(uc usecase.ContactUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		cr, err := uc.CapturePayment(r.Context(), id, req.OrderID)
		if err != nil {
			metrics.IncPaymentCapture("contact_request", "failed")
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentCapture("contact_request", "succeeded")
		writeJSON(w, http.StatusOK, cr)
	}
}
