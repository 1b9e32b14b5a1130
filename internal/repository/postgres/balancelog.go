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
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/models"
)

type BalanceLogRepo struct {
	DB DBTX
}

const createLogEntry = `-- name: CreateLogEntry
INSERT INTO balance_log (id, organization_id, payment_id, amount_changed, logged_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, organization_id, payment_id, amount_changed, logged_at
`

func (r *BalanceLogRepo) CreateEntry(ctx context.Context, entry models.BalanceLogEntry) (models.BalanceLogEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createLogEntry,
		entry.ID,
		entry.OrganizationID,
		entry.PaymentID,
		entry.AmountChanged,
		entry.LoggedAt,
	)
	e, err := pgx.CollectOneRow(rows, rowToLogEntry)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return e, apperrors.ErrPaymentAlreadyLogged
			case pgerrcode.ForeignKeyViolation:
				return e, fmt.Errorf("log entry references missing row: %w", err)
			}
		}

		return e, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

const listLogEntries = `-- name: ListLogEntries
SELECT id, organization_id, payment_id, amount_changed, logged_at FROM balance_log
WHERE organization_id = $1
ORDER BY logged_at DESC
`

func (r *BalanceLogRepo) ListEntries(ctx context.Context, orgID uuid.UUID) ([]models.BalanceLogEntry, error) {
	rows, _ := r.DB.Query(ctx, listLogEntries, orgID)
	entries, err := pgx.CollectRows(rows, rowToLogEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

const sumLogAmounts = `-- name: SumLogAmounts
SELECT COALESCE(SUM(amount_changed), 0) FROM balance_log
WHERE organization_id = $1
`

func (r *BalanceLogRepo) SumAmounts(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.DB.QueryRow(ctx, sumLogAmounts, orgID).Scan(&sum)
	if err != nil {
		return sum, fmt.Errorf("db error: %w", err)
	}

	return sum, nil
}

func rowToLogEntry(row pgx.CollectableRow) (models.BalanceLogEntry, error) {
	var e models.BalanceLogEntry
	err := row.Scan(&e.ID, &e.OrganizationID, &e.PaymentID, &e.AmountChanged, &e.LoggedAt)
	return e, err
}
