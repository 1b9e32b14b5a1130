package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/repository"
	"github.com/nkiryanov/paymentsledger/internal/testutil"
)

func TestOrganizations(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.WithTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	t.Run("CreateOrganization", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				org, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")

				require.NoError(t, err, "organization has to be created ok")
				require.NotZero(t, org.ID)
				require.Equal(t, "1234567890", org.INN)
				require.True(t, org.Balance.IsZero(), "balance should be zero for new organization")
				require.WithinDuration(t, time.Now(), org.CreatedAt, time.Second)
				require.WithinDuration(t, time.Now(), org.UpdatedAt, time.Second)
			})
		})

		t.Run("create duplicate inn", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")
				require.NoError(t, err, "first creation should be ok")

				_, err = storage.Organization().CreateOrganization(t.Context(), "1234567890")

				require.Error(t, err, "creating organization twice should fail")
				require.ErrorIs(t, err, apperrors.ErrOrganizationAlreadyExists, "should return well known error")
			})
		})

		t.Run("create malformed inn", func(t *testing.T) {
			tests := []struct {
				name string
				inn  string
			}{
				{"too short", "123456789"},
				{"eleven digits", "12345678901"},
				{"not digits", "12345678ab"},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
						_, err := storage.Organization().CreateOrganization(t.Context(), tt.inn)

						require.Error(t, err, "malformed inn must not pass the check constraint")
						require.ErrorIs(t, err, apperrors.ErrINNInvalid)
					})
				})
			}
		})
	})

	t.Run("GetByINN", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			created, err := storage.Organization().CreateOrganization(t.Context(), "123456789012")
			require.NoError(t, err)

			t.Run("get existing", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					org, err := storage.Organization().GetByINN(t.Context(), "123456789012")

					require.NoError(t, err, "getting organization should not fail")
					require.Equal(t, created.ID, org.ID)
					require.Equal(t, "123456789012", org.INN)
				})
			})

			t.Run("get nonexistent", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Organization().GetByINN(t.Context(), "9999999999")

					require.Error(t, err, "getting nonexistent organization should fail")
					require.ErrorIs(t, err, apperrors.ErrOrganizationNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("AddToBalance", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			org, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")
			require.NoError(t, err)

			t.Run("credit ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					updated, err := storage.Organization().AddToBalance(t.Context(), org.ID, decimal.RequireFromString("1500.75"))

					require.NoError(t, err, "credit should not fail")
					require.True(t, updated.Balance.Equal(decimal.RequireFromString("1500.75")), "balance should reflect the credit, got %s", updated.Balance)
					require.True(t, updated.UpdatedAt.After(org.UpdatedAt) || updated.UpdatedAt.Equal(org.UpdatedAt), "updated_at should be bumped")

					stored, err := storage.Organization().GetByINN(t.Context(), org.INN)
					require.NoError(t, err)
					require.True(t, stored.Balance.Equal(updated.Balance), "stored balance should match returned one")
				})
			})

			t.Run("credit accumulates", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Organization().AddToBalance(t.Context(), org.ID, decimal.NewFromInt(100))
					require.NoError(t, err)

					updated, err := storage.Organization().AddToBalance(t.Context(), org.ID, decimal.RequireFromString("0.01"))
					require.NoError(t, err)

					require.True(t, updated.Balance.Equal(decimal.RequireFromString("100.01")), "credits should add up, got %s", updated.Balance)
				})
			})

			t.Run("credit nonexistent organization", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Organization().AddToBalance(t.Context(), uuid.New(), decimal.NewFromInt(1))

					require.Error(t, err, "crediting unknown organization should fail")
					require.ErrorIs(t, err, apperrors.ErrOrganizationNotFound, "should return well known error")
				})
			})
		})
	})
}
