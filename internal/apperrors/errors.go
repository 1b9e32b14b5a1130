package apperrors

import (
	"errors"
)

var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
	ErrINNInvalid                = errors.New("inn must be 10 or 12 digits")

	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyExists = errors.New("payment with this operation id already exists")
	ErrDocumentNumberTaken  = errors.New("document number already used by another payment")
	ErrAmountInvalid        = errors.New("payment amount is invalid")

	ErrPaymentAlreadyLogged = errors.New("balance log entry for this payment already exists")
)
