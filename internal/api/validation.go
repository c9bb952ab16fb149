package api

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// specialChars is the closed set of accepted password special characters.
const specialChars = "@$!%*?&"

// NewValidator builds the request validator: field names are reported by
// their json tag, and the four password character-class validators are
// registered.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "haslower", func(s string) bool {
		return strings.IndexFunc(s, unicode.IsLower) >= 0
	})
	mustRegister(v, "hasupper", func(s string) bool {
		return strings.IndexFunc(s, unicode.IsUpper) >= 0
	})
	mustRegister(v, "hasdigit", func(s string) bool {
		return strings.IndexFunc(s, unicode.IsDigit) >= 0
	})
	mustRegister(v, "hasspecial", func(s string) bool {
		return strings.ContainsAny(s, specialChars)
	})

	return v
}

// mustRegister registers a string-field validation func, panicking on
// registration failure (only possible with a programming error).
func mustRegister(v *validator.Validate, tag string, check func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Per-endpoint validation messages, keyed by "<jsonField>.<tag>". These are
// part of the public API contract.
var (
	registerMessages = map[string]string{
		"username.required":        "Require username",
		"email.required":           "Require email",
		"email.email":              "Incorrect format",
		"password.required":        "Require password",
		"password.min":             "Password required at least 6 character",
		"password.max":             "Password must be at most 20 characters long",
		"password.haslower":        "Password must contain at least one lowercase letter",
		"password.hasupper":        "Password must contain at least one uppercase letter",
		"password.hasdigit":        "Password must contain at least one number",
		"password.hasspecial":      "Password must contain at least one special character",
		"confirmPassword.required": "Please enter a confirm password",
		"confirmPassword.eqfield":  "Password and confirm password must be same",
	}

	loginMessages = map[string]string{
		"email.required":    "Require email",
		"email.email":       "Incorrect format",
		"password.required": "Require password",
	}

	taskCreateMessages = map[string]string{
		"title.required":       "Title is required",
		"description.required": "Description is required",
		"status.oneof":         "Invalid status. Status must be [pending, in-progress, completed]",
		"priority.oneof":       "Invalid priority. Priority must be [low, medium, high]",
	}

	taskUpdateMessages = map[string]string{
		"title.required":       "Title must be a non-empty string",
		"description.required": "Description must be a non-empty string",
		"status.required":      "Invalid status. Status must be [pending, in-progress, completed]",
		"status.oneof":         "Invalid status. Status must be [pending, in-progress, completed]",
		"priority.required":    "Invalid priority. Priority must be [low, medium, high]",
		"priority.oneof":       "Invalid priority. Priority must be [low, medium, high]",
	}
)

// FieldErrors converts a validator error into a field→message map using the
// given per-endpoint message table. The first failing tag per field wins.
func FieldErrors(err error, messages map[string]string) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["body"] = "Invalid request body"
		return fields
	}

	for _, fe := range validationErrors {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			fields[field] = msg
		} else {
			fields[field] = "Invalid value"
		}
	}

	return fields
}
