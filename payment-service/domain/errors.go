package domain

import (
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/shopspring/decimal"
)

func AccountNotFound(number string) error {
	return apperrors.Newf(apperrors.CodeNotFound, "account %s not found", number)
}

func AccountExists(number string) error {
	return apperrors.Newf(apperrors.CodeConcurrencyConflict, "account %s already exists", number)
}

func InsufficientFunds(number string, required, available decimal.Decimal) error {
	return apperrors.Newf(apperrors.CodeValidation, "insufficient balance in account %s", number).
		WithDetails(map[string]any{"required": required.String(), "available": available.String()})
}

func ConcurrencyConflict(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeConcurrencyConflict, format, args...)
}

func Validation(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeValidation, format, args...)
}
