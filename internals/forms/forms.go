// Package forms validates submitted field values against explicit
// per-field rules. Each input shape is a plain map of field name to
// Rule, evaluated by Validate.
package forms

import "regexp"

type Format int

const (
	FormatNone Format = iota
	FormatEmail
	// FormatURL marks a field as carrying a URL. Syntax is deliberately
	// not enforced; blank values fall back to defaults in the handlers.
	FormatURL
)

// Rule describes what a single field accepts.
type Rule struct {
	Required  bool
	Format    Format
	MinLength int
}

// Errors maps field names to their validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks values against rules and returns per-field messages.
// An empty result means the submission is valid. Fields absent from
// rules are ignored; optional fields are only format-checked when
// non-empty.
func Validate(values map[string]string, rules map[string]Rule) Errors {
	errs := Errors{}
	for field, rule := range rules {
		value := values[field]
		if value == "" {
			if rule.Required {
				errs.Add(field, "This field is required.")
			}
			continue
		}
		if rule.MinLength > 0 && len(value) < rule.MinLength {
			errs.Add(field, "This field is too short.")
		}
		if rule.Format == FormatEmail && !emailPattern.MatchString(value) {
			errs.Add(field, "Invalid email address.")
		}
	}
	return errs
}

// CafeRules covers the add/edit cafe form. The city_code membership
// check runs in the handler against the live city list.
var CafeRules = map[string]Rule{
	"name":        {Required: true},
	"description": {},
	"url":         {Format: FormatURL},
	"address":     {Required: true},
	"city_code":   {Required: true},
	"image_url":   {Format: FormatURL},
}

var SignupRules = map[string]Rule{
	"username":    {Required: true},
	"first_name":  {Required: true},
	"last_name":   {Required: true},
	"description": {},
	"email":       {Required: true, Format: FormatEmail},
	"password":    {Required: true, MinLength: 6},
	"image_url":   {Format: FormatURL},
}

var LoginRules = map[string]Rule{
	"username": {Required: true},
	"password": {Required: true},
}

var ProfileEditRules = map[string]Rule{
	"first_name":  {Required: true},
	"last_name":   {Required: true},
	"description": {},
	"email":       {Required: true, Format: FormatEmail},
	"image_url":   {Format: FormatURL},
}
