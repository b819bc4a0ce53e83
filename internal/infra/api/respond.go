package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"service-sales-platform/internal/domain"
	"service-sales-platform/internal/infra/logging"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errBody struct {
	Message string `json:"message"`
}

// writeError maps domain errors to statuses. Anything unclassified is logged
// and surfaced as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	var code int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidPackage),
		errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrOrderMismatch),
		errors.Is(err, domain.ErrPaymentIncomplete),
		errors.Is(err, domain.ErrContactFeeRequired),
		errors.Is(err, domain.ErrCheckoutNotEnabled),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrBadTransition),
		errors.Is(err, domain.ErrSubscriptionActive),
		errors.Is(err, domain.ErrNoSubscription):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrLockNotAcquired):
		code = http.StatusConflict
	default:
		l := logging.With(r.Context(), logger)
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errBody{Message: "internal error"})
		return
	}
	writeJSON(w, code, errBody{Message: err.Error()})
}

// validID rejects malformed object-id path params before any lookup. Lead and
// service ids are UUIDs; checkout ids are ULIDs and validated separately.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
