package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/handlers/render"
	"github.com/nkiryanov/paymentsledger/internal/logger"
)

func handleOrganizationBalance(paymentService paymentService, l logger.Logger) http.Handler {
	type response struct {
		INN string `json:"inn"`
		// json.Number keeps the full numeric(15, 2) range exact on the
		// wire, float64 loses the last digits
		Balance json.Number `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inn := r.PathValue("inn")

		org, err := paymentService.GetBalance(r.Context(), inn)

		switch {
		case err == nil:
			render.JSON(w, response{INN: org.INN, Balance: json.Number(org.Balance.StringFixed(2))})
		case errors.Is(err, apperrors.ErrINNInvalid):
			render.ServiceError(w, "INN must be 10 or 12 digits", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrOrganizationNotFound):
			render.ServiceError(w, "Organization not found", http.StatusNotFound)
		default:
			l.Error("Failed to get balance", "inn", inn, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
