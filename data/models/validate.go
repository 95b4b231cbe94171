package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// go-playground/validator suggests using a single instance of the
// validator, shared across the package.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// present LocalDateTime fields as their underlying time.Time, which the
	// validator special-cases, so required fires on the zero value
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if ldt, ok := field.Interface().(LocalDateTime); ok {
			return ldt.Time
		}
		return nil
	}, LocalDateTime{})

	// required alone would accept whitespace-only titles
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	// report field errors under the JSON names clients actually sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// FieldErrors maps a JSON field name to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, m := range fe {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

var fieldMessages = map[string]string{
	"title":         "Title is mandatory and cannot be empty",
	"startDateTime": "Start date and time are mandatory",
	"endDateTime":   "End date and time are mandatory",
}

// ValidateEvent checks the Event's field constraints and returns one
// message per offending field, or nil when the event is valid.
func ValidateEvent(e Event) FieldErrors {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"event": err.Error()}
	}

	fieldErrs := make(FieldErrors, len(verrs))
	for _, ve := range verrs {
		msg, ok := fieldMessages[ve.Field()]
		if !ok {
			msg = fmt.Sprintf("%s failed validation on the '%s' rule", ve.Field(), ve.Tag())
		}
		fieldErrs[ve.Field()] = msg
	}
	return fieldErrs
}
