package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Apply outcomes that count as success for the notification source.
// Both mean "do not resend".
const (
	PaymentApplied   = "APPLIED"
	PaymentDuplicate = "DUPLICATE"
)

// PaymentNotification is a parsed, shape-checked inbound bank notification.
// OperationID is the idempotency key: redelivery of the same id must not
// credit the payer twice.
type PaymentNotification struct {
	OperationID    uuid.UUID
	Amount         decimal.Decimal
	PayerINN       string
	DocumentNumber string
	DocumentDate   time.Time
}

// Payment is the persisted record of one accepted notification.
// Rows are immutable: created exactly once, never updated or deleted.
type Payment struct {
	ID             uuid.UUID
	OperationID    uuid.UUID
	Amount         decimal.Decimal
	PayerID        uuid.UUID
	DocumentNumber string
	DocumentDate   time.Time
	CreatedAt      time.Time
}

// PaymentResult is what ApplyPayment hands back for success-class outcomes.
// Balance is the payer balance after the credit; meaningful only when
// Outcome is PaymentApplied.
type PaymentResult struct {
	Outcome string
	Payment Payment
	Balance decimal.Decimal
}
