// Package validate wraps go-playground/validator and reports failures as
// httpx.ValidationError keyed by the payload's JSON field paths.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/platform/httpx"
)

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// Validator validates request payloads.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator that names fields by their json tag and compares
// decimal.Decimal values numerically.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{v: v}
}

// Struct validates s, returning a *httpx.ValidationError for rule violations.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fieldPath(fe.Namespace())
		if _, seen := fields[key]; !seen {
			fields[key] = message(fe)
		}
	}
	return &httpx.ValidationError{Fields: fields}
}

// fieldPath turns "ProductInput.warehouses[1].warehouse_id" into "warehouses.1.warehouse_id".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return "may not be greater than " + fe.Param() + " characters"
		}
		return "may not be greater than " + fe.Param()
	case "lte", "lt":
		return "may not be greater than " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gtefield":
		return "must be greater than or equal to " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "unique":
		return "has a duplicate value"
	default:
		return "failed the " + fe.Tag() + " rule"
	}
}
