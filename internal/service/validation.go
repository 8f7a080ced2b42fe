package service

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/pviana/store-manager/internal/errors"
)

// ProductPayload is the create/update body for a product. Quantity is decoded
// as a float so a non-integer JSON number fails validation instead of decoding.
type ProductPayload struct {
	Name     string   `json:"name"     validate:"required,min=5"`
	Quantity *float64 `json:"quantity" validate:"required"`
}

// SaleItemPayload is one entry of a sale create/update body. The product ID
// format is checked downstream by the referential check, not here.
type SaleItemPayload struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  *float64 `json:"quantity"  validate:"required"`
}

// jsonName maps struct fields to the wire names used in validation messages.
var jsonName = map[string]string{
	"Name":      "name",
	"Quantity":  "quantity",
	"ProductID": "productId",
}

// validateProduct checks a product payload and reports the first violated
// rule with a message naming the offending field and constraint.
func validateProduct(validate *validator.Validate, payload ProductPayload) *apperrors.Error {
	if err := validate.Struct(payload); err != nil {
		return apperrors.NewInvalidData(firstRuleMessage(err))
	}
	return quantityRuleMessage(*payload.Quantity)
}

// validateSaleItems checks every item of a sale payload, first violation wins.
// An empty item list is structurally valid.
func validateSaleItems(validate *validator.Validate, items []SaleItemPayload) *apperrors.Error {
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			return apperrors.NewInvalidData(firstRuleMessage(err))
		}
		if verr := quantityRuleMessage(*item.Quantity); verr != nil {
			return verr
		}
	}
	return nil
}

// quantityRuleMessage applies the numeric rules the struct tags cannot
// express: quantity must be an integer larger than or equal to 1.
func quantityRuleMessage(quantity float64) *apperrors.Error {
	if quantity != math.Trunc(quantity) {
		return apperrors.NewInvalidData(`"quantity" must be an integer`)
	}
	if quantity < 1 {
		return apperrors.NewInvalidData(`"quantity" must be larger than or equal to 1`)
	}
	return nil
}

// firstRuleMessage translates the first field error into a human-readable
// message identifying the field and the violated constraint.
func firstRuleMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "invalid payload"
	}
	fieldErr := validationErrors[0]
	field := jsonName[fieldErr.StructField()]
	if field == "" {
		field = fieldErr.StructField()
	}
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%q failed on the %q rule", field, fieldErr.Tag())
	}
}
