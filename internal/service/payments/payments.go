package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/logger"
	"github.com/nkiryanov/paymentsledger/internal/models"
	"github.com/nkiryanov/paymentsledger/internal/repository"
)

// Amount limits of the ledger: numeric(15,2), at least one kopeck
var (
	minAmount = decimal.New(1, -2) // 0.01
	maxAmount = decimal.New(1, 13) // 15 digits total, 2 of them fractional
)

type PaymentService struct {
	storage repository.Storage
	logger  logger.Logger
}

func NewService(storage repository.Storage, l logger.Logger) *PaymentService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &PaymentService{
		storage: storage,
		logger:  l,
	}
}

// ApplyPayment credits the payer organization exactly once per operation id.
//
// The payment row, the balance change and the audit log entry commit in one
// transaction. Pre-checks below are fast paths only: the unique constraints
// on payments decide races, and a constraint violation at commit time is
// classified, not propagated.
//
// Returns PaymentResult for success-class outcomes (applied or duplicate).
// Rejections come back as sentinel errors:
//
//	apperrors.ErrAmountInvalid         malformed amount
//	apperrors.ErrOrganizationNotFound  unknown payer inn, never auto-created
//	apperrors.ErrDocumentNumberTaken   document number used by another payment
//
// Anything else is a storage failure: nothing was committed and the caller
// may safely retry the same notification.
func (s *PaymentService) ApplyPayment(ctx context.Context, n models.PaymentNotification) (models.PaymentResult, error) {
	var result models.PaymentResult

	if err := validateAmount(n.Amount); err != nil {
		return result, err
	}

	// Fast path: redelivered notification
	existing, err := s.storage.Payment().GetByOperationID(ctx, n.OperationID)
	switch {
	case err == nil:
		s.logger.Info("Duplicate notification ignored", "operation_id", n.OperationID, "payer_inn", n.PayerINN)
		return models.PaymentResult{Outcome: models.PaymentDuplicate, Payment: existing}, nil
	case !errors.Is(err, apperrors.ErrPaymentNotFound):
		return result, fmt.Errorf("can't check operation id. Err: %w", err)
	}

	org, err := s.storage.Organization().GetByINN(ctx, n.PayerINN)
	if err != nil {
		return result, err
	}

	// Fast path: document number already used. The operation id
	// explanation wins here too: a redelivery of this notification may
	// have committed after the operation id check above, and its row
	// carries our document number.
	byDocument, err := s.storage.Payment().GetByDocumentNumber(ctx, n.DocumentNumber)
	switch {
	case err == nil && byDocument.OperationID == n.OperationID:
		s.logger.Info("Duplicate notification ignored", "operation_id", n.OperationID, "payer_inn", n.PayerINN)
		return models.PaymentResult{Outcome: models.PaymentDuplicate, Payment: byDocument}, nil
	case err == nil:
		return result, apperrors.ErrDocumentNumberTaken
	case !errors.Is(err, apperrors.ErrPaymentNotFound):
		return result, fmt.Errorf("can't check document number. Err: %w", err)
	}

	var payment models.Payment
	var balance decimal.Decimal

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		var err error

		payment, err = storage.Payment().CreatePayment(ctx, models.Payment{
			OperationID:    n.OperationID,
			Amount:         n.Amount,
			PayerID:        org.ID,
			DocumentNumber: n.DocumentNumber,
			DocumentDate:   n.DocumentDate,
		})
		if err != nil {
			return err
		}

		updated, err := storage.Organization().AddToBalance(ctx, org.ID, n.Amount)
		if err != nil {
			return err
		}
		balance = updated.Balance

		_, err = storage.BalanceLog().CreateEntry(ctx, models.BalanceLogEntry{
			OrganizationID: org.ID,
			PaymentID:      payment.ID,
			AmountChanged:  n.Amount,
		})
		return err
	})

	switch {
	case err == nil:
		s.logger.Info("Payment applied",
			"operation_id", n.OperationID,
			"payer_inn", org.INN,
			"amount", n.Amount.String(),
		)
		return models.PaymentResult{Outcome: models.PaymentApplied, Payment: payment, Balance: balance}, nil

	case errors.Is(err, apperrors.ErrPaymentAlreadyExists), errors.Is(err, apperrors.ErrDocumentNumberTaken):
		// Lost a commit-time race. The operation id explanation always
		// wins: if the same operation landed first this is a duplicate
		// even when the document number collided too.
		return s.reclassifyConflict(ctx, n)

	default:
		s.logger.Error("Payment failed",
			"operation_id", n.OperationID,
			"payer_inn", n.PayerINN,
			"error", err,
		)
		return result, fmt.Errorf("can't apply payment. Err: %w", err)
	}
}

// reclassifyConflict decides what a commit-time unique violation meant
func (s *PaymentService) reclassifyConflict(ctx context.Context, n models.PaymentNotification) (models.PaymentResult, error) {
	var result models.PaymentResult

	existing, err := s.storage.Payment().GetByOperationID(ctx, n.OperationID)
	switch {
	case err == nil:
		s.logger.Info("Duplicate notification ignored after commit race", "operation_id", n.OperationID, "payer_inn", n.PayerINN)
		return models.PaymentResult{Outcome: models.PaymentDuplicate, Payment: existing}, nil
	case errors.Is(err, apperrors.ErrPaymentNotFound):
		return result, apperrors.ErrDocumentNumberTaken
	default:
		return result, fmt.Errorf("can't recheck operation id. Err: %w", err)
	}
}

// GetBalance returns the latest committed balance of the organization
func (s *PaymentService) GetBalance(ctx context.Context, inn string) (models.Organization, error) {
	if !models.ValidINN(inn) {
		return models.Organization{}, apperrors.ErrINNInvalid
	}

	return s.storage.Organization().GetByINN(ctx, inn)
}

func validateAmount(amount decimal.Decimal) error {
	switch {
	case amount.LessThan(minAmount):
		return fmt.Errorf("%w: must be at least 0.01", apperrors.ErrAmountInvalid)
	case !amount.Equal(amount.Truncate(2)):
		return fmt.Errorf("%w: at most 2 decimal places", apperrors.ErrAmountInvalid)
	case amount.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: must fit 15 digits", apperrors.ErrAmountInvalid)
	}

	return nil
}
