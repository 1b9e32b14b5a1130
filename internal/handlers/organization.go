package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/handlers/render"
	"github.com/nkiryanov/paymentsledger/internal/logger"
)

func handleCreateOrganization(orgService organizationService, l logger.Logger) http.Handler {
	type request struct {
		INN string `json:"inn" validate:"required,inn"`
	}

	type response struct {
		INN     string      `json:"inn"`
		Balance json.Number `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		org, err := orgService.Register(r.Context(), req.INN)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{INN: org.INN, Balance: json.Number(org.Balance.StringFixed(2))}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrINNInvalid):
			render.ServiceError(w, "INN must be 10 or 12 digits", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrOrganizationAlreadyExists):
			render.ServiceError(w, "Organization already exists", http.StatusConflict)
		default:
			l.Error("Failed to create organization", "inn", req.INN, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
