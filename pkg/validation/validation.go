package validation

import (
	"errors"
	"reflect"
	"strings"

	"storefront/pkg/httperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names so clients see "category_id", not "CategoryID".
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "params"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// Decimals validate as floats so numeric rules like gt=0 apply to prices.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct validates req and maps failures to a 400 whose details name every
// violated field and the rule it broke. The code is "<scope>.validation_failed".
func Struct(scope string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return httperror.BadRequest(
			scope+".validation_failed",
			"Validation failed for the request",
			Fields(ve),
		)
	}

	return httperror.InternalServerError(
		scope+".validation_error",
		"An unexpected validation error occurred",
		nil,
	)
}

// Fields flattens validator errors into field -> rule.
func Fields(ve validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
