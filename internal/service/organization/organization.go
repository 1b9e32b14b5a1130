package organization

import (
	"context"

	"github.com/nkiryanov/paymentsledger/internal/apperrors"
	"github.com/nkiryanov/paymentsledger/internal/models"
	"github.com/nkiryanov/paymentsledger/internal/repository"
)

// OrganizationService covers the out-of-band organization lifecycle.
// The payment processor only reads organizations; creating them is an
// administrative action.
type OrganizationService struct {
	orgRepo repository.OrganizationRepo
}

func NewService(orgRepo repository.OrganizationRepo) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

func (s *OrganizationService) Register(ctx context.Context, inn string) (models.Organization, error) {
	if !models.ValidINN(inn) {
		return models.Organization{}, apperrors.ErrINNInvalid
	}

	return s.orgRepo.CreateOrganization(ctx, inn)
}
