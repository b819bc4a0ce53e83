package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/domain/model"
	"service-sales-platform/internal/domain/ports/repository"
	"service-sales-platform/internal/usecase"
)

func servicesMeHandler(uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := CallerFrom(r.Context())
		if c.Email == "" {
			writeError(w, r, logger, domain.ErrForbidden)
			return
		}
		services, err := uc.ListByEmail(r.Context(), c.Email)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Service `json:"data"`
		}{services})
	}
}

func servicesAdminListHandler(uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		f := repository.ServiceFilter{
			Email:  q.Get("email"),
			Status: model.ServiceStatus(q.Get("status")),
			Offset: offset,
			Limit:  limit,
		}
		services, err := uc.List(r.Context(), f)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Service `json:"data"`
		}{services})
	}
}

type serviceUpdateRequest struct {
	Status         *string `json:"status"`
	SubscriptionID *string `json:"subscription_id"`
	Domain         *string `json:"domain"`
}

func serviceUpdateHandler(uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		var req serviceUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		upd := usecase.ServiceUpdate{
			SubscriptionID: req.SubscriptionID,
			Domain:         req.Domain,
		}
		if req.Status != nil {
			st := model.ServiceStatus(*req.Status)
			upd.Status = &st
		}
		svc, err := uc.Update(r.Context(), id, upd)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

// serviceStatusHandler covers the admin force-status actions that share the
// "load, flip, save" shape.
func serviceStatusHandler(fn func(usecase.ServiceUseCase) func(r *http.Request, id string) (*model.Service, error), uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	apply := fn(uc)
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		svc, err := apply(r, id)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func activateTrialAction(uc usecase.ServiceUseCase) func(r *http.Request, id string) (*model.Service, error) {
	return func(r *http.Request, id string) (*model.Service, error) { return uc.ActivateTrial(r.Context(), id) }
}

func suspendAction(uc usecase.ServiceUseCase) func(r *http.Request, id string) (*model.Service, error) {
	return func(r *http.Request, id string) (*model.Service, error) { return uc.Suspend(r.Context(), id) }
}

func cancelAction(uc usecase.ServiceUseCase) func(r *http.Request, id string) (*model.Service, error) {
	return func(r *http.Request, id string) (*model.Service, error) { return uc.Cancel(r.Context(), id) }
}

func subscriptionCreateHandler(uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		start, err := uc.StartSubscription(r.Context(), id)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			SubscriptionID string `json:"subscription_id"`
			ApproveURL     string `json:"approve_url"`
			Status         string `json:"status"`
		}{start.SubscriptionID, start.ApproveURL, string(start.Status)})
	}
}

func subscriptionCancelHandler(uc usecase.ServiceUseCase, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !validID(id) {
			writeError(w, r, logger, domain.ErrInvalidArgument)
			return
		}
		svc, err := uc.CancelSubscription(r.Context(), id)
		if err != nil {
			writeError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

// subscriptionReturnHandler is the gateway-initiated browser redirect; it
// always 302s to a configured page instead of returning JSON.
func subscriptionReturnHandler(uc usecase.ServiceUseCase, successURL, failureURL string, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		customID := q.Get("custom_id")
		subID := q.Get("subscription_id")
		if subID == "" {
			subID = q.Get("ba_token")
		}
		_, active, err := uc.CompleteSubscriptionReturn(r.Context(), customID, subID)
		if err != nil || !active {
			if err != nil {
				logger.Warn().Err(err).Str("subscription_id", subID).Msg("subscription return failed")
			}
			http.Redirect(w, r, failureURL, http.StatusFound)
			return
		}
		http.Redirect(w, r, successURL, http.StatusFound)
	}
}
