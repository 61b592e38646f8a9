package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitkit/internal/constants"
)

// Validate is the shared validator with the habit-specific tags registered.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	for tag, fn := range map[string]validator.Func{
		"notblank":     validateNotBlank,
		"hhmm":         layoutValidator(constants.TimeFormat),
		"calendar_day": layoutValidator(constants.DateFormat),
	} {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// FirstError returns the first field error of err, or nil when err carries none.
func FirstError(err error) validator.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0]
	}
	return nil
}

// Email checks a profile email address.
func Email(email string) error {
	if err := Validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

// AvatarURL checks a profile avatar; empty clears it.
func AvatarURL(avatar string) error {
	if err := Validate.Var(avatar, "omitempty,url"); err != nil {
		return fmt.Errorf("avatar must be an absolute URL")
	}
	return nil
}

// NotBlank rejects empty or whitespace-only values.
func NotBlank(field, value string) error {
	if err := Validate.Var(value, "notblank"); err != nil {
		return fmt.Errorf("%s cannot be empty", field)
	}
	return nil
}
