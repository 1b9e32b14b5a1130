package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/models"
	"github.com/nkiryanov/paymentsledger/internal/repository"
	"github.com/nkiryanov/paymentsledger/internal/testutil"
)

func TestPayments(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.WithTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	payment := func(payerID uuid.UUID, document string) models.Payment {
		return models.Payment{
			OperationID:    uuid.New(),
			Amount:         decimal.RequireFromString("1500.75"),
			PayerID:        payerID,
			DocumentNumber: document,
			DocumentDate:   time.Now().Add(-time.Hour),
		}
	}

	t.Run("CreatePayment", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			org, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")
			require.NoError(t, err)

			t.Run("create ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					p := payment(org.ID, "DOC-1")
					created, err := storage.Payment().CreatePayment(t.Context(), p)

					require.NoError(t, err, "payment has to be created ok")
					require.NotZero(t, created.ID)
					require.Equal(t, p.OperationID, created.OperationID)
					require.Equal(t, org.ID, created.PayerID)
					require.Equal(t, "DOC-1", created.DocumentNumber)
					require.True(t, created.Amount.Equal(p.Amount), "amount should match")
					require.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
				})
			})

			t.Run("create duplicate operation id", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					p := payment(org.ID, "DOC-1")
					_, err := storage.Payment().CreatePayment(t.Context(), p)
					require.NoError(t, err, "first payment should be created ok")

					p.DocumentNumber = "DOC-2"
					_, err = storage.Payment().CreatePayment(t.Context(), p)

					require.Error(t, err, "same operation id must not be inserted twice")
					require.ErrorIs(t, err, apperrors.ErrPaymentAlreadyExists, "should return well known error")
				})
			})

			t.Run("create duplicate document number", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Payment().CreatePayment(t.Context(), payment(org.ID, "DOC-1"))
					require.NoError(t, err, "first payment should be created ok")

					_, err = storage.Payment().CreatePayment(t.Context(), payment(org.ID, "DOC-1"))

					require.Error(t, err, "same document number must not be inserted twice")
					require.ErrorIs(t, err, apperrors.ErrDocumentNumberTaken, "should return well known error")
				})
			})

			t.Run("create for missing payer", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Payment().CreatePayment(t.Context(), payment(uuid.New(), "DOC-1"))

					require.Error(t, err, "payment for unknown organization must fail")
					require.ErrorIs(t, err, apperrors.ErrOrganizationNotFound, "should return well known error")
				})
			})

			t.Run("create non positive amount", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					p := payment(org.ID, "DOC-1")
					p.Amount = decimal.Zero

					_, err := storage.Payment().CreatePayment(t.Context(), p)

					require.Error(t, err, "zero amount must not pass the check constraint")
					require.ErrorIs(t, err, apperrors.ErrAmountInvalid)
				})
			})
		})
	})

	t.Run("Getters", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			org, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")
			require.NoError(t, err)

			created, err := storage.Payment().CreatePayment(t.Context(), payment(org.ID, "DOC-1"))
			require.NoError(t, err)

			t.Run("by operation id", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Payment().GetByOperationID(t.Context(), created.OperationID)

					require.NoError(t, err)
					require.Equal(t, created.ID, got.ID)
				})
			})

			t.Run("by operation id not found", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Payment().GetByOperationID(t.Context(), uuid.New())

					require.ErrorIs(t, err, apperrors.ErrPaymentNotFound, "should return well known error")
				})
			})

			t.Run("by document number", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Payment().GetByDocumentNumber(t.Context(), "DOC-1")

					require.NoError(t, err)
					require.Equal(t, created.ID, got.ID)
				})
			})

			t.Run("by document number not found", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Payment().GetByDocumentNumber(t.Context(), "DOC-404")

					require.ErrorIs(t, err, apperrors.ErrPaymentNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("ListPayments", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			org, err := storage.Organization().CreateOrganization(t.Context(), "1234567890")
			require.NoError(t, err)

			older := payment(org.ID, "DOC-OLD")
			older.DocumentDate = time.Now().Add(-2 * time.Hour)
			newer := payment(org.ID, "DOC-NEW")
			newer.DocumentDate = time.Now().Add(-1 * time.Hour)

			olderCreated, err := storage.Payment().CreatePayment(t.Context(), older)
			require.NoError(t, err)
			newerCreated, err := storage.Payment().CreatePayment(t.Context(), newer)
			require.NoError(t, err)

			t.Run("newest document first", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					listed, err := storage.Payment().ListPayments(t.Context(), org.ID)

					require.NoError(t, err)
					require.Len(t, listed, 2)
					require.Equal(t, newerCreated.ID, listed[0].ID, "first payment should have the most recent document date")
					require.Equal(t, olderCreated.ID, listed[1].ID)
				})
			})

			t.Run("empty for unknown organization", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					listed, err := storage.Payment().ListPayments(t.Context(), uuid.New())

					require.NoError(t, err, "listing for unknown organization should not fail")
					require.Empty(t, listed)
				})
			})
		})
	})
}
