package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/models"
)

// Constraint names from the ledger schema, used to tell which
// idempotency key fired on a commit-time unique violation
const (
	constraintOperationID    = "payments_operation_id_key"
	constraintDocumentNumber = "payments_document_number_key"
)

type PaymentRepo struct {
	DB DBTX
}

const createPayment = `-- name: CreatePayment
INSERT INTO payments (id, operation_id, amount, payer_id, document_number, document_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, operation_id, amount, payer_id, document_number, document_date, created_at
`

func (r *PaymentRepo) CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createPayment,
		payment.ID,
		payment.OperationID,
		payment.Amount,
		payment.PayerID,
		payment.DocumentNumber,
		payment.DocumentDate,
		payment.CreatedAt,
	)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraintOperationID:
				return p, apperrors.ErrPaymentAlreadyExists
			case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraintDocumentNumber:
				return p, apperrors.ErrDocumentNumberTaken
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return p, apperrors.ErrOrganizationNotFound
			case pgErr.Code == pgerrcode.CheckViolation:
				return p, apperrors.ErrAmountInvalid
			}
		}

		return p, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

const getPaymentByOperationID = `-- name: GetPaymentByOperationID
SELECT id, operation_id, amount, payer_id, document_number, document_date, created_at FROM payments
WHERE operation_id = $1
`

func (r *PaymentRepo) GetByOperationID(ctx context.Context, operationID uuid.UUID) (models.Payment, error) {
	rows, _ := r.DB.Query(ctx, getPaymentByOperationID, operationID)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, pgx.ErrNoRows):
		return p, apperrors.ErrPaymentNotFound
	default:
		return p, fmt.Errorf("db error: %w", err)
	}
}

const getPaymentByDocumentNumber = `-- name: GetPaymentByDocumentNumber
SELECT id, operation_id, amount, payer_id, document_number, document_date, created_at FROM payments
WHERE document_number = $1
`

func (r *PaymentRepo) GetByDocumentNumber(ctx context.Context, documentNumber string) (models.Payment, error) {
	rows, _ := r.DB.Query(ctx, getPaymentByDocumentNumber, documentNumber)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, pgx.ErrNoRows):
		return p, apperrors.ErrPaymentNotFound
	default:
		return p, fmt.Errorf("db error: %w", err)
	}
}

const listPayments = `-- name: ListPayments
SELECT id, operation_id, amount, payer_id, document_number, document_date, created_at FROM payments
WHERE payer_id = $1
ORDER BY document_date DESC
`

func (r *PaymentRepo) ListPayments(ctx context.Context, orgID uuid.UUID) ([]models.Payment, error) {
	rows, _ := r.DB.Query(ctx, listPayments, orgID)
	payments, err := pgx.CollectRows(rows, rowToPayment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payments, nil
}

func rowToPayment(row pgx.CollectableRow) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OperationID, &p.Amount, &p.PayerID, &p.DocumentNumber, &p.DocumentDate, &p.CreatedAt)
	return p, err
}
