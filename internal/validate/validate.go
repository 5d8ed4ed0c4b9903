// Package validate implements the field- and record-level validation
// rules every credential must pass before the repository accepts a
// mutation. Validation never runs on read -- only on add/update.
package validate

import (
	"fmt"
	"strings"

	"github.com/pquerna/otp/base32"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

// Error collects one or more human-readable validation failures for a
// single credential. It never includes a field's value.
type Error struct {
	Issues []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Issues, "; "))
}

// Validator applies field-type-specific and record-level rules.
type Validator struct{}

// New constructs a Validator. It carries no state.
func New() *Validator {
	return &Validator{}
}

// ValidateRecord checks r's title, and every field's type-specific rule.
// It returns a *Error (use errors.As) listing every violation found,
// rather than stopping at the first.
func (v *Validator) ValidateRecord(r *model.CredentialRecord) error {
	var issues []string

	if strings.TrimSpace(r.Title) == "" {
		issues = append(issues, "title must not be empty")
	}

	for name, field := range r.Fields {
		if err := v.ValidateField(field); err != nil {
			issues = append(issues, fmt.Sprintf("field %q: %s", name, err.Error()))
		}
	}

	if len(issues) > 0 {
		return &Error{Issues: issues}
	}
	return nil
}

// ValidateField applies the rule for f.Type against f.Value. Empty
// values are always permitted -- a field is only checked once it holds
// content, so "blank but reserved" fields don't block saves.
func (v *Validator) ValidateField(f model.CredentialField) error {
	if f.Value == "" {
		return nil
	}

	switch {
	case f.Type.Equal(model.Email):
		if !strings.Contains(f.Value, "@") {
			return fmt.Errorf("email must contain '@'")
		}
	case f.Type.Equal(model.URL):
		if !strings.HasPrefix(f.Value, "http") {
			return fmt.Errorf("url must start with 'http'")
		}
	case f.Type.Equal(model.CreditCardNumber):
		digits := 0
		for _, r := range f.Value {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 13 {
			return fmt.Errorf("credit card number must contain at least 13 digits")
		}
	case f.Type.Equal(model.TOTPSecret):
		cleaned := strings.ToUpper(strings.ReplaceAll(f.Value, " ", ""))
		if _, err := base32.StdEncoding.DecodeString(padBase32(cleaned)); err != nil {
			return fmt.Errorf("totp secret must be valid base32 (RFC 4648)")
		}
	}
	return nil
}

// padBase32 pads s with trailing '=' to a multiple of 8 characters, the
// form RFC 4648 base32 decoding expects. TOTP secrets are commonly
// stored or typed without padding.
func padBase32(s string) string {
	if rem := len(s) % 8; rem != 0 {
		s += strings.Repeat("=", 8-rem)
	}
	return s
}
