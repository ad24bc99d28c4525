package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// MaxNameLength matches the first_name and last_name columns.
const MaxNameLength = 50

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]func(string) (bool, string){
		"person_name":     IsValidName,
		"strong_password": IsStrongPassword,
	}
	for tag, rule := range rules {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			ok, _ := rule(fl.Field().String())
			return ok
		})
		if err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// IsValidName reports whether name starts with a capital letter and contains
// only letters. The second value is the rejection reason.
func IsValidName(name string) (bool, string) {
	if name == "" {
		return false, "Name is required."
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false, "Name must start with a capital letter."
	}

	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false, "Name must contain only alphabetic characters (no spaces, hyphens, or apostrophes)."
		}
	}

	return true, ""
}

// IsStrongPassword checks pw against the password policy:
//   - at least 8 characters
//   - at least one lowercase, one uppercase, one digit and one symbol
//   - every character appears only once
//   - no run of 3 ascending or descending adjacent code points
func IsStrongPassword(pw string) (bool, string) {
	if pw == "" {
		return false, "Password is required."
	}

	runes := []rune(pw)
	if len(runes) < 8 {
		return false, "Password must be at least 8 characters long."
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(punctuation, r):
			hasSymbol = true
		}
	}
	if !(hasLower && hasUpper && hasDigit && hasSymbol) {
		return false, "Password must include uppercase, lowercase, digits and symbols."
	}

	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, dup := seen[r]; dup {
			return false, "Password must not contain repeated characters."
		}
		seen[r] = struct{}{}
	}

	for i := 0; i+2 < len(runes); i++ {
		if isSequence(runes[i], runes[i+1], runes[i+2]) {
			return false, "Password must not contain 3-character sequential runs (e.g. abc or 123)."
		}
	}

	return true, ""
}

func isSequence(a, b, c rune) bool {
	return (b == a+1 && c == b+1) || (b == a-1 && c == b-1)
}

func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum is %s", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", err.Param())
		}
		return fmt.Sprintf("Maximum is %s", err.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "numeric":
		return "Must be numeric"
	case "eqfield":
		return "Passwords do not match."
	case "datetime":
		return fmt.Sprintf("Must be a date in %s format", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "uuid":
		return "Must be a valid UUID"
	case "person_name":
		_, reason := IsValidName(fmt.Sprint(err.Value()))
		return reason
	case "strong_password":
		_, reason := IsStrongPassword(fmt.Sprint(err.Value()))
		return reason
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// FirstValidationError returns one "Field: message" line from errors,
// preferring fields in the given order. It is used where a form shows a single
// error line.
func FirstValidationError(errors map[string]string, order ...string) string {
	for _, field := range order {
		if msg, ok := errors[field]; ok {
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return ""
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", fields[0], errors[fields[0]])
}
