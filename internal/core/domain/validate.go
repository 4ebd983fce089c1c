package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every string check in the package. A Validate caches
// parsed tags and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	urlRules   = fmt.Sprintf("required,http_url,max=%d", MaxURLLength)
	emailRules = "required,email"
)

// failedTag returns the tag of the first rule err reports, or "" when err is
// not a validation failure.
func failedTag(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Tag()
	}
	return ""
}

// ValidateEmail reports whether email is a bare address such as
// "alice@example.com". Display names and angle brackets are rejected.
func ValidateEmail(email string) error {
	err := validate.Var(email, emailRules)
	if err == nil {
		return nil
	}
	if failedTag(err) == "required" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return fmt.Errorf("%w: email must be a valid address", ErrInvalidInput)
}
