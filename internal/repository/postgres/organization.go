package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/models"
)

type OrganizationRepo struct {
	DB DBTX
}

const createOrganization = `-- name: CreateOrganization
INSERT INTO organizations (id, inn, balance)
VALUES ($1, $2, 0)
RETURNING id, inn, balance, created_at, updated_at
`

func (r *OrganizationRepo) CreateOrganization(ctx context.Context, inn string) (models.Organization, error) {
	rows, _ := r.DB.Query(ctx, createOrganization, uuid.New(), inn)
	org, err := pgx.CollectOneRow(rows, rowToOrganization)

	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
			return org, apperrors.ErrOrganizationAlreadyExists
		case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation:
			return org, apperrors.ErrINNInvalid
		}

		return org, fmt.Errorf("db error: %w", err)
	}

	return org, nil
}

const getOrganizationByINN = `-- name: GetOrganizationByINN
SELECT id, inn, balance, created_at, updated_at FROM organizations
WHERE inn = $1
`

func (r *OrganizationRepo) GetByINN(ctx context.Context, inn string) (models.Organization, error) {
	rows, _ := r.DB.Query(ctx, getOrganizationByINN, inn)
	org, err := pgx.CollectOneRow(rows, rowToOrganization)

	switch {
	case err == nil:
		return org, nil
	case errors.Is(err, pgx.ErrNoRows):
		return org, apperrors.ErrOrganizationNotFound
	default:
		return org, fmt.Errorf("db error: %w", err)
	}
}

// Single-statement read-modify-write: the UPDATE takes the row lock,
// so concurrent credits to one organization serialize on it until the
// surrounding transaction commits. No lost updates.
const addToBalance = `-- name: AddToBalance
UPDATE organizations
SET balance = balance + $2, updated_at = now()
WHERE id = $1
RETURNING id, inn, balance, created_at, updated_at
`

func (r *OrganizationRepo) AddToBalance(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) (models.Organization, error) {
	rows, _ := r.DB.Query(ctx, addToBalance, orgID, amount)
	org, err := pgx.CollectOneRow(rows, rowToOrganization)

	switch {
	case err == nil:
		return org, nil
	case errors.Is(err, pgx.ErrNoRows):
		return org, apperrors.ErrOrganizationNotFound
	default:
		return org, fmt.Errorf("db error: %w", err)
	}
}

func rowToOrganization(row pgx.CollectableRow) (models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.INN, &o.Balance, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
