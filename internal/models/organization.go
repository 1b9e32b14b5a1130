package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Russian tax identifier: exactly 10 or 12 digits
var innPattern = regexp.MustCompile(`^\d{10}$|^\d{12}$`)

// Organization is a payer known to the ledger.
// It is created out-of-band, never by the payment processor:
// a notification for an unknown INN is rejected, not auto-created.
type Organization struct {
	ID        uuid.UUID
	INN       string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidINN(inn string) bool {
	return innPattern.MatchString(inn)
}
