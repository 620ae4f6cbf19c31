package domain

import (
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/models"
)

func ShipmentNotFound(orderID models.ID) error {
	return apperrors.Newf(apperrors.CodeNotFound, "no shipment for order %s", orderID)
}

func ShipmentFinished(orderID models.ID, status ShipmentStatus) error {
	return apperrors.Newf(apperrors.CodeValidation, "shipment for order %s already %s", orderID, status)
}

func Validation(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeValidation, format, args...)
}
