package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var sessionValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "bookable_day", validateBookableDay)
	mustRegister(v, "opening_hours", validateOpeningHours)
	return v
})

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("scheduler: register %s validation: %v", tag, err))
	}
}

func validateBookableDay(fl validator.FieldLevel) bool {
	return Day(fl.Field().Int()).Bookable()
}

func validateOpeningHours(fl validator.FieldLevel) bool {
	t := TimeOfDay(fl.Field().Int())
	return t >= OpeningTime && t <= ClosingTime
}

// Validate checks the session invariants: a bookable day, start before end,
// both inside opening hours, and non-empty room, class and description.
func (s Session) Validate() error {
	return validateStruct(s)
}

// Validate checks the slot invariants.
func (s Slot) Validate() error {
	return validateStruct(s)
}

func validateStruct(value any) error {
	err := sessionValidator().Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return malformed(err.Error())
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translateFieldError(fe))
	}
	return malformed(strings.Join(messages, "; "))
}

func translateFieldError(fe validator.FieldError) string {
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "bookable_day":
		return "sessions can only be booked Monday to Friday"
	case "opening_hours":
		return fmt.Sprintf("%s must be between %s and %s", field, OpeningTime, ClosingTime)
	case "gtfield":
		return "start must be before end"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func fieldLabel(name string) string {
	switch name {
	case "ClassName":
		return "class name"
	default:
		return strings.ToLower(name)
	}
}
