package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and flattens the failures into
// a single error message suitable for a 400 response body.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var sb strings.Builder
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if sb.Len() > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %s", sb.String())
	}
	return nil
}
