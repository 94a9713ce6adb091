package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance. Field names are reported
// by their yaml names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError lists every invalid field of a configuration.
type ValidationError struct {
	Fields map[string]string
}

// Error joins the field messages in a stable order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "config: invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks field constraints and that the primary and every
// fallback have at least one credential.
func (c *Config) Validate() error {
	fields := make(map[string]string)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			field := fieldPath(fe)
			fields[field] = message(field, fe)
		}
	}

	for provider := range c.Credentials {
		if !slices.Contains(knownProviders, provider) {
			field := "credentials." + string(provider)
			fields[field] = fmt.Sprintf("%s: unknown provider %q", field, provider)
		}
	}
	if c.Primary != "" && !hasKeys(c.Credentials[c.Primary]) {
		fields["credentials."+string(c.Primary)] = fmt.Sprintf("primary provider %s has no credentials", c.Primary)
	}
	for _, p := range c.Fallbacks {
		if !hasKeys(c.Credentials[p]) {
			fields["credentials."+string(p)] = fmt.Sprintf("fallback provider %s has no credentials", p)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// fieldPath returns the namespace of fe without the root struct name,
// e.g. "providers[0].temperature".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s validation failed on '%s' tag", field, fe.Tag())
	}
}

func hasKeys(keys []string) bool {
	return slices.ContainsFunc(keys, func(k string) bool { return strings.TrimSpace(k) != "" })
}
