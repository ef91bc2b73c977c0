package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a request DTO against its validate tags and returns a
// human-readable message for the first violation.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("field %s is required", fe.Field())
	case "email":
		return fmt.Errorf("field %s must be a valid email address", fe.Field())
	case "min":
		return fmt.Errorf("field %s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("field %s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Errorf("field %s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("field %s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("field %s is invalid", fe.Field())
	}
}
