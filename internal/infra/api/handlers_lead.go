package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/infra/metrics"
	"service-sales-platform/internal/usecase"
)

type leadCreateRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	SelectedPlan string `json:"selected_plan"`
	Idea         string `json:"idea"`
}

type leadResponse struct {
	ID               string           `json:"id"`
	FullName         string           `json:"full_name"`
	Email            string           `json:"email"`
	SelectedPlan     string           `json:"selected_plan"`
	AgreedPlan       string           `json:"agreed_plan,omitempty"`
	Idea             string           `json:"idea,omitempty"`
	ContactFeeAmount float64          `json:"contact_fee_amount"`
	ContactFeePaid   bool             `json:"contact_fee_paid"`
	WhatsappUnlocked bool             `json:"whatsapp_unlocked"`
	CheckoutEnabled  bool             `json:"checkout_enabled"`
	PlanBasePrice    float64          `json:"plan_base_price,omitempty"`
	DiscountAmount   float64          `json:"discount_amount,omitempty"`
	FinalPrice       float64          `json:"final_price,omitempty"`
	PlanPaid         bool             `json:"plan_paid"`
	Status           model.LeadStatus `json:"status"`
}

func leadView(l *model.Lead) leadResponse {
	return leadResponse{
		ID:               l.ID,
		FullName:         l.FullName,
		Email:            l.Email,
		SelectedPlan:     string(l.SelectedPlan),
		AgreedPlan:       string(l.AgreedPlan),
		Idea:             l.Idea,
		ContactFeeAmount: l.ContactFeeAmount,
		ContactFeePaid:   l.ContactFeePaid,
		WhatsappUnlocked: l.WhatsappUnlocked,
		CheckoutEnabled:  l.CheckoutEnabled,
		PlanBasePrice:    l.PlanBasePrice,
		DiscountAmount:   l.DiscountAmount,
		FinalPrice:       l.FinalPrice,
		PlanPaid:         l.PlanPaid,
		Status:           l.Status,
	}
}

func leadCreateHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		var owner *string
		if c := CallerFrom(r.Context()); c.UserID != "" {
			owner = &c.UserID
		}
		lead, err := uc.Create(r.Context(), req.FullName, req.Email, req.SelectedPlan, req.Idea, owner)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		metrics.IncLeadCreated()
		// The access token is only handed out once, at creation.
		resp := struct {
			leadResponse
			AccessToken string `json:"access_token"`
		}{leadView(lead), lead.AccessToken}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func leadsMeHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := CallerFrom(r.Context())
		leads, err := uc.ListByOwner(r.Context(), c.UserID)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		out := make([]leadResponse, 0, len(leads))
		for _, l := range leads {
			out = append(out, leadView(l))
		}
		writeJSON(w, http.StatusOK, struct {
			Data []leadResponse `json:"data"`
		}{out})
	}
}

func leadGetHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		lead, err := uc.Get(r.Context(), id, CallerFrom(r.Context()))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, leadView(lead))
	}
}

type orderResponse struct {
	OrderID    string `json:"order_id"`
	ApproveURL string `json:"approve_url"`
}

func contactFeeCreateOrderHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		order, err := uc.CreateContactFeeOrder(r.Context(), id, CallerFrom(r.Context()))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentOrder("contact_fee")
		writeJSON(w, http.StatusOK, orderResponse{OrderID: order.OrderID, ApproveURL: order.ApproveURL})
	}
}

type captureRequest struct {
	OrderID string `json:"order_id"`
}

func contactFeeCaptureHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
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
		lead, captured, err := uc.CaptureContactFee(r.Context(), id, req.OrderID, CallerFrom(r.Context()))
		if err != nil {
			metrics.IncPaymentCapture("contact_fee", "failed")
			writeError(w, r, logger, err)
			return
		}
		// Idempotent repeats must not count revenue twice.
		if captured {
			metrics.IncPaymentCapture("contact_fee", "succeeded")
			metrics.AddPaymentRevenue("contact_fee", lead.ContactFeeAmount)
			metrics.IncLeadTransition(string(lead.Status))
		}
		writeJSON(w, http.StatusOK, leadView(lead))
	}
}

func planCreateOrderHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		order, err := uc.CreatePlanOrder(r.Context(), id, CallerFrom(r.Context()))
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		metrics.IncPaymentOrder("plan")
		writeJSON(w, http.StatusOK, orderResponse{OrderID: order.OrderID, ApproveURL: order.ApproveURL})
	}
}

func planCaptureHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
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
		res, err := uc.CapturePlanPayment(r.Context(), id, req.OrderID, CallerFrom(r.Context()))
		if err != nil {
			metrics.IncPaymentCapture("plan", "failed")
			writeError(w, r, logger, err)
			return
		}
		if res.Captured {
			metrics.IncPaymentCapture("plan", "succeeded")
			metrics.AddPaymentRevenue("plan", res.Lead.FinalPrice)
			metrics.IncLeadTransition(string(res.Lead.Status))
		}
		resp := struct {
			leadResponse
			ServiceID string `json:"service_id,omitempty"`
		}{leadView(res.Lead), res.ServiceID}
		writeJSON(w, http.StatusOK, resp)
	}
}

func adminLeadsListHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}
		leads, err := uc.ListAll(r.Context(), offset, limit)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		out := make([]leadResponse, 0, len(leads))
		for _, l := range leads {
			out = append(out, leadView(l))
		}
		writeJSON(w, http.StatusOK, struct {
			Data   []leadResponse `json:"data"`
			Limit  int            `json:"limit"`
			Offset int            `json:"offset"`
		}{out, limit, offset})
	}
}

type enableCheckoutRequest struct {
	AgreedPlan     string  `json:"agreed_plan"`
	DiscountAmount float64 `json:"discount_amount"`
}

func adminEnableCheckoutHandler(uc usecase.LeadUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		var req enableCheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		c := CallerFrom(r.Context())
		lead, err := uc.EnableCheckout(r.Context(), id, req.AgreedPlan, req.DiscountAmount, c.UserID)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, leadView(lead))
	}
}
