// Package validation evaluates declarative struct-tag rules and reports every
// failed field at once.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct trims string fields, then evaluates all rules on payload, which must
// be a pointer to a struct. Any failure yields a single validation error
// carrying every violation.
func (v *Validator) Struct(payload any) error {
	TrimStrings(payload)
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewBadRequest("Invalid request payload", err)
	}
	violations := make([]apperrors.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		violations = append(violations, apperrors.FieldViolation{Field: fe.Field(), Constraint: constraint})
	}
	return apperrors.NewValidationError(violations)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimStrings trims surrounding whitespace from every exported string field of
// the struct behind ptr. Passwords are left untouched.
func TrimStrings(ptr any) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || f.Kind() != reflect.String {
			continue
		}
		if strings.EqualFold(rt.Field(i).Name, "password") {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}
