// Package validate wraps go-playground/validator and turns its field errors into
// user-facing validation errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Messages maps "<jsonField>.<tag>" to the message reported for that failure.
type Messages map[string]string

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()

			return f
		}

		return nil
	}, decimal.Decimal{})

	val.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return val
}

// Struct validates s and returns an errs.ErrValidation error listing every failed rule.
func Struct(s any, messages Messages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validator.Struct: %w", err)
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, messageFor(fe, messages))
	}

	return errs.Validation(strings.Join(lo.Uniq(out), ", "))
}

func messageFor(fe validator.FieldError, messages Messages) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}

	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}

		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
		}

		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return field + " cannot be negative"
		}

		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "unique":
		return field + " must not contain duplicates"
	case "uuid":
		return field + " must be a valid id"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
