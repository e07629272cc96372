package stock

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

var validate = validator.New()

// ValidateCreateRequest checks a nested create payload.
func ValidateCreateRequest(req CreateRequest) error {
	if err := validate.Struct(req); err != nil {
		return fieldErrorsFrom(err)
	}
	return validateLines(req.Lines)
}

// ValidateUpdateRequest checks a nested update payload.
func ValidateUpdateRequest(req UpdateRequest) error {
	if err := validate.Struct(req); err != nil {
		return fieldErrorsFrom(err)
	}
	return validateLines(req.Lines)
}

func validateLines(lines []LineReq) error {
	if len(lines) == 0 {
		return shared.FieldErrors{"lines": "at least one line is required"}
	}
	for i, line := range lines {
		if !line.Quantity.IsPositive() {
			return shared.FieldErrors{
				"lines[" + strconv.Itoa(i) + "].quantity": "quantity must be greater than zero",
			}
		}
	}
	return nil
}

func fieldErrorsFrom(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := shared.FieldErrors{}
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return fields
}
