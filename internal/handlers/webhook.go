package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/handlers/render"
	"github.com/nkiryanov/paymentsledger/internal/logger"
	"github.com/nkiryanov/paymentsledger/internal/models"
)

func handleBankWebhook(paymentService paymentService, l logger.Logger) http.Handler {
	type request struct {
		OperationID    string          `json:"operation_id" validate:"required,uuid"`
		Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
		PayerINN       string          `json:"payer_inn" validate:"required,inn"`
		DocumentNumber string          `json:"document_number" validate:"required,max=50"`
		DocumentDate   time.Time       `json:"document_date" validate:"required"`
	}

	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// uuid tag guarantees this parses
		operationID, err := uuid.Parse(req.OperationID)
		if err != nil {
			render.ServiceError(w, "Invalid operation id", http.StatusBadRequest)
			return
		}

		result, err := paymentService.ApplyPayment(r.Context(), models.PaymentNotification{
			OperationID:    operationID,
			Amount:         req.Amount,
			PayerINN:       req.PayerINN,
			DocumentNumber: req.DocumentNumber,
			DocumentDate:   req.DocumentDate,
		})

		switch {
		case err == nil && result.Outcome == models.PaymentApplied:
			render.JSONWithStatus(w, response{Status: "success"}, http.StatusCreated)
		case err == nil:
			// Duplicate delivery: success for the sender, nothing changed
			render.JSON(w, response{Status: "success"})
		case errors.Is(err, apperrors.ErrOrganizationNotFound):
			render.ServiceError(w, "Organization not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrDocumentNumberTaken):
			render.ServiceError(w, "Document number must be unique", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrAmountInvalid):
			render.ServiceError(w, "Invalid payment amount", http.StatusBadRequest)
		default:
			l.Error("Failed to process bank webhook",
				"operation_id", req.OperationID,
				"payer_inn", req.PayerINN,
				"error", err,
			)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
