package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

const msgRequiredFields = "Please fill in all required fields."

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a request struct against its validate tags. Missing
// required fields produce the generic required-fields message; other
// failures list the offending fields.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	fields := make(map[string]string, len(verrs))
	missing := false
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		if fe.Tag() == "required" {
			missing = true
		}
	}
	message := "Invalid request."
	if missing {
		message = msgRequiredFields
	}
	return apperrors.NewValidationError(message, map[string]any{"fields": fields})
}
