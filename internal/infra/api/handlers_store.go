package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/usecase"
)

func productsListHandler(products repository.ProductRepository, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		list, err := products.List(r.Context(), repository.NoTX, q.Get("category"), offset, limit)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Product `json:"data"`
		}{list})
	}
}

func categoriesListHandler(categories repository.CategoryRepository, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := categories.ListAll(r.Context(), repository.NoTX)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Category `json:"data"`
		}{list})
	}
}

type productUpsertRequest struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	InStock     bool    `json:"in_stock"`
}

func adminProductUpsertHandler(products repository.ProductRepository, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productUpsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Price < 0 {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		now := time.Now()
		p := &model.Product{
			ID:          req.ID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			InStock:     req.InStock,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := products.Save(r.Context(), repository.NoTX, p); err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

type placeOrderRequest struct {
	Email      string `json:"email"`
	CouponCode string `json:"coupon_code"`
	Items      []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

func orderPlaceHandler(uc usecase.OrderUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		lines := make([]usecase.CartLine, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, usecase.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		order, err := uc.Place(r.Context(), req.Email, lines, req.CouponCode)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

func ordersMeHandler(uc usecase.OrderUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := CallerFrom(r.Context())
		if c.Email == "" {
			writeError(w, r, logger, domain.ErrForbidden)
			return
		}
		orders, err := uc.ListByEmail(r.Context(), c.Email)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Order `json:"data"`
		}{orders})
	}
}

func adminOrdersListHandler(uc usecase.OrderUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		orders, err := uc.ListAll(r.Context(), offset, limit)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Order `json:"data"`
		}{orders})
	}
}

type orderStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func adminOrderStatusHandler(uc usecase.OrderUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		var req orderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		c := CallerFrom(r.Context())
		order, err := uc.UpdateStatus(r.Context(), id, model.OrderStatus(req.Status), c.UserID, req.Reason)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

type couponUpsertRequest struct {
	Code      string     `json:"code"`
	Type      string     `json:"type"`
	Value     float64    `json:"value"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func adminCouponUpsertHandler(coupons repository.CouponRepository, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req couponUpsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.Value < 0 {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		typ := model.CouponType(req.Type)
		if typ != model.CouponTypePercent && typ != model.CouponTypeFixed {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		// Codes are stored upper-cased; checkout upper-cases before lookup.
		c := &model.Coupon{
			Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
			Type:      typ,
			Value:     req.Value,
			Active:    req.Active,
			ExpiresAt: req.ExpiresAt,
			CreatedAt: time.Now(),
		}
		if err := coupons.Save(r.Context(), repository.NoTX, c); err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func adminCouponsListHandler(coupons repository.CouponRepository, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := coupons.ListAll(r.Context(), repository.NoTX)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Coupon `json:"data"`
		}{list})
	}
}
