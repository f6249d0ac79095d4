package lib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EmailRegexp is a regexp you can use to validate emails
var EmailRegexp = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// DateRegexp is a regexp you can use to validate a date
var DateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// OptionalDateRegexp is a regexp you can use to validate an optional date
var OptionalDateRegexp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})?$`)

// TimeRegexp is a regexp you can use to validate a time
var TimeRegexp = regexp.MustCompile(`\d{2}:\d{2}`)

// SlugRegexp is a regexp you can use to validate a slug
var SlugRegexp = regexp.MustCompile(`[a-z0-9_-]+`)

// ValidationFn represents a check the validator can do again some arbitrary input.
// Here fieldName's main use is for nice human readable error messages.
type ValidationFn func(values map[string]string) []string

// Validate runs the given validations against the given values
func Validate(values map[string]string, validations ...ValidationFn) []string {
	allErrors := []string{}
	for _, validation := range validations {
		errors := validation(values)
		allErrors = append(allErrors, errors...)
	}
	return allErrors
}

// ValidatePresence validates the input is a non-empty string
func ValidatePresence(field string) ValidationFn {
	return func(values map[string]string) []string {
		if len(values[field]) == 0 {
			return []string{StringToTitle(field) + " is a required field"}
		}
		return []string{}
	}
}

// ValidateRegexp validates that the input matches a given regular expression
func ValidateRegexp(field string, r *regexp.Regexp) ValidationFn {
	return func(values map[string]string) []string {
		if !r.Match([]byte(values[field])) {
			return []string{StringToTitle(field) + " is not in the valid format"}
		}
		return []string{}
	}
}

// ValidateNumber validates the value parses as a number within the given
// bounds. Use min/max of -1 to skip a bound.
func ValidateNumber(field string, min float64, max float64) ValidationFn {
	return func(values map[string]string) []string {
		n, err := strconv.ParseFloat(values[field], 64)
		if err != nil {
			return []string{StringToTitle(field) + " is not a number"}
		}
		errors := []string{}
		if min != -1 && n < min {
			errors = append(errors, StringToTitle(field)+" is smaller than "+strconv.FormatFloat(min, 'f', -1, 64))
		}
		if max != -1 && n > max {
			errors = append(errors, StringToTitle(field)+" is larger than "+strconv.FormatFloat(max, 'f', -1, 64))
		}
		return errors
	}
}

// ValidateLength validates the length of the value is within certain bounds.
// A min of -1 will be ignored. A max of -1 will be ignored. Min and max are
// inclusive so ValidateLength(1,3) passes [1,2,3] but fails [0,4,...]
func ValidateLength(field string, min int, max int) ValidationFn {
	return func(values map[string]string) []string {
		errors := []string{}
		if min != -1 {
			if len(values[field]) < min {
				errors = append(errors, StringToTitle(field)+" is shorter than "+strconv.Itoa(min)+" characters")
			}
		}
		if max != -1 {
			if len(values[field]) > max {
				errors = append(errors, StringToTitle(field)+" is longer than "+strconv.Itoa(max)+" characters")
			}
		}
		return errors
	}
}

// ValidateOneOf validates that the value is one of the provided options
func ValidateOneOf(field string, options []string) ValidationFn {
	return func(values map[string]string) []string {
		for _, o := range options {
			if values[field] == o {
				return []string{}
			}
		}
		return []string{StringToTitle(field) + " is not one of " + strings.Join(options, ", ")}
	}
}

// ValidateUnique validates that no other row in the database exists for the
// given values
func ValidateUnique(field string, db *Database, dbTable, dbField, currentValue string) ValidationFn {
	return func(values map[string]string) []string {
		val := struct{ C int }{}
		sql := fmt.Sprintf("select count(id) as c from %s where %s = ?", dbTable, dbField)
		db.First(&val, sql, values[field])
		if val.C > 0 && values[field] != currentValue {
			return []string{StringToTitle(field) + " is already taken"}
		}
		return []string{}
	}
}
