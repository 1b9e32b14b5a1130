package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceLogEntry is the audit record of one balance change.
// Entries are 1:1 with payments and written in the same transaction,
// so for any organization balance == sum(AmountChanged) at all times.
type BalanceLogEntry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	PaymentID      uuid.UUID
	AmountChanged  decimal.Decimal
	LoggedAt       time.Time
}
