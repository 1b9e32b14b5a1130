package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/paymentsledger/internal/models"
)

// Organization repository interface
type OrganizationRepo interface {
	// Create organization with zero balance
	// If organization with the inn exists already has to return apperrors.ErrOrganizationAlreadyExists
	CreateOrganization(ctx context.Context, inn string) (models.Organization, error)

	// Get organization by its tax identifier
	// If organization not found must return apperrors.ErrOrganizationNotFound
	GetByINN(ctx context.Context, inn string) (models.Organization, error)

	// Apply signed amount to the organization balance and bump updated_at.
	// Takes the row lock for the rest of the enclosing transaction, so
	// concurrent mutations of the same organization serialize here.
	// If organization not found must return apperrors.ErrOrganizationNotFound
	AddToBalance(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) (models.Organization, error)
}

// Payment repository interface
type PaymentRepo interface {
	// Persist payment exactly as given (ID and CreatedAt set by the repo)
	// On unique violation must return:
	//   apperrors.ErrPaymentAlreadyExists for the operation id constraint
	//   apperrors.ErrDocumentNumberTaken for the document number constraint
	CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error)

	// Lookups used as idempotency fast paths
	// If not found must return apperrors.ErrPaymentNotFound
	GetByOperationID(ctx context.Context, operationID uuid.UUID) (models.Payment, error)
	GetByDocumentNumber(ctx context.Context, documentNumber string) (models.Payment, error)

	// List payments of the organization, newest document first
	ListPayments(ctx context.Context, orgID uuid.UUID) ([]models.Payment, error)
}

// Balance audit log repository interface
type BalanceLogRepo interface {
	// Create audit entry for a payment
	// If the payment is already logged must return apperrors.ErrPaymentAlreadyLogged
	CreateEntry(ctx context.Context, entry models.BalanceLogEntry) (models.BalanceLogEntry, error)

	// List entries of the organization, newest first
	ListEntries(ctx context.Context, orgID uuid.UUID) ([]models.BalanceLogEntry, error)

	// Sum of all amount changes for the organization.
	// Must equal the organization balance at any point in time.
	SumAmounts(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error)
}

type Storage interface {
	Organization() OrganizationRepo
	Payment() PaymentRepo
	BalanceLog() BalanceLogRepo

	// Run fn in a single db transaction
	// The storage passed to fn must see and produce uncommitted state of the transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
