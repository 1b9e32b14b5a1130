package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/paymentsledger/internal/handlers"
	"github.com/nkiryanov/paymentsledger/internal/logger"
	"github.com/nkiryanov/paymentsledger/internal/repository"
	"github.com/nkiryanov/paymentsledger/internal/repository/postgres"
	"github.com/nkiryanov/paymentsledger/internal/service/organization"
	"github.com/nkiryanov/paymentsledger/internal/service/payments"
	"github.com/nkiryanov/paymentsledger/internal/testutil"
)

type Services struct {
	PaymentService      *payments.PaymentService
	OrganizationService *organization.OrganizationService
	Storage             repository.Storage
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		paymentService := payments.NewService(storage, logger.NewNoOpLogger())
		orgService := organization.NewService(storage.Organization())

		router := handlers.NewRouter(
			paymentService,
			orgService,
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			PaymentService:      paymentService,
			OrganizationService: orgService,
			Storage:             storage,
		})
	})
}
