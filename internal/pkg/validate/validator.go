package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to fiber's StructValidator, so
// c.Bind() validates request structs after decoding.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

func (v *Validator) Validate(out any) error {
	if err := v.v.Struct(out); err != nil {
		return &Error{cause: err}
	}
	return nil
}

// Error lists the offending fields without echoing submitted values.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	var verrs validator.ValidationErrors
	if !errors.As(e.cause, &verrs) {
		return e.cause.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Fields returns the names of the fields that failed validation.
func (e *Error) Fields() []string {
	var verrs validator.ValidationErrors
	if !errors.As(e.cause, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
