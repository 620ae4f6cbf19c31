package domain

import (
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/models"
)

func OrderNotFound(id models.ID) error {
	return apperrors.Newf(apperrors.CodeNotFound, "order %s not found", id)
}

func ProductNotFound(id models.ID) error {
	return apperrors.Newf(apperrors.CodeNotFound, "product %s not found", id)
}

func CustomerNotFound(id models.ID) error {
	return apperrors.Newf(apperrors.CodeNotFound, "customer %s not found", id)
}

func WarehouseNotFound(id models.ID) error {
	return apperrors.Newf(apperrors.CodeNotFound, "warehouse %s not found", id)
}

func InsufficientStock(productID models.ID, required, available int) error {
	return apperrors.Newf(apperrors.CodeInsufficientStock,
		"insufficient stock for product %s: required %d, available %d", productID, required, available).
		WithDetails(map[string]any{"product_id": productID, "required": required, "available": available})
}

func ConcurrencyConflict(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeConcurrencyConflict, format, args...)
}

func OrderNotCancellable(id models.ID, status Status) error {
	return apperrors.Newf(apperrors.CodeOrderNotCancellable, "order %s cannot be cancelled in status %s", id, status).
		WithDetails(map[string]any{"status": status})
}

func Validation(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeValidation, format, args...)
}
