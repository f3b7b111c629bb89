package accounts

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
	// printable ASCII without space or control codes
	secretPattern = regexp.MustCompile(`^[\x21-\x7E]{8,20}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation only fails for empty or reserved tags
	_ = v.RegisterValidation("accountid", func(fl validator.FieldLevel) bool {
		return accountIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("secretchars", func(fl validator.FieldLevel) bool {
		return secretPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateCreateRequest checks the signup payload. Fields are checked in
// declaration order, so a request wrong on both reports the id.
func ValidateCreateRequest(req *CreateAccountRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewAccountValidationError(req.ID, "invalid signup request", err)
	}

	first := fieldErrs[0]
	switch {
	case first.Tag() == "required":
		return NewAccountValidationError(req.ID, "required id and secret", err)
	case first.Field() == "ID":
		return NewAccountValidationError(req.ID, "id must be 6-20 alphanumeric characters", err)
	default:
		return NewAccountValidationError(req.ID, "secret must be 8-20 ASCII characters without spaces or control codes", err)
	}
}

// ValidateUpdateRequest enforces the length limits of the mutable fields
func ValidateUpdateRequest(accountID string, req *UpdateAccountRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewAccountValidationError(accountID, "invalid update request", err)
	}

	switch fieldErrs[0].Field() {
	case "DisplayName":
		return NewAccountValidationError(accountID, "displayName too long", err)
	case "Note":
		return NewAccountValidationError(accountID, "note too long", err)
	default:
		return NewAccountValidationError(accountID, "invalid update request", err)
	}
}
