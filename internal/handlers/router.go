package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/paymentsledger/internal/handlers/middleware"
	"github.com/nkiryanov/paymentsledger/internal/logger"
	"github.com/nkiryanov/paymentsledger/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	paymentService paymentService,
	orgService organizationService,
	logger logger.Logger,
) http.Handler {
	api := http.NewServeMux()

	api.Handle("POST /webhook/bank", handleBankWebhook(paymentService, logger))
	api.Handle("GET /organizations/{inn}/balance", handleOrganizationBalance(paymentService, logger))
	api.Handle("POST /organizations", handleCreateOrganization(orgService, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type paymentService interface {
	// Apply bank payment notification exactly once per operation id
	// Success-class outcomes (applied, duplicate) come in the result;
	// rejections as apperrors sentinels:
	//   ErrOrganizationNotFound, ErrDocumentNumberTaken, ErrAmountInvalid
	ApplyPayment(ctx context.Context, n models.PaymentNotification) (models.PaymentResult, error)

	// Get latest committed balance by organization inn
	// Has to return apperrors.ErrOrganizationNotFound if inn is unknown
	GetBalance(ctx context.Context, inn string) (models.Organization, error)
}

type organizationService interface {
	// Register organization with zero balance
	// Has to return apperrors.ErrOrganizationAlreadyExists for a known inn
	Register(ctx context.Context, inn string) (models.Organization, error)
}
