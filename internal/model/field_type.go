package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType identifies the semantic kind of a CredentialField, driving
// default sensitivity, display hints, and validation rules.
type FieldType struct {
	kind   fieldKind
	custom string // populated only when kind == fieldKindCustom
}

type fieldKind int

const (
	FieldTypeText fieldKind = iota
	FieldTypePassword
	FieldTypeEmail
	FieldTypeURL
	FieldTypeUsername
	FieldTypePhone
	FieldTypeCreditCardNumber
	FieldTypeExpiryDate
	FieldTypeCVV
	FieldTypeTOTPSecret
	FieldTypeTextArea
	FieldTypeNumber
	FieldTypeDate
	fieldKindCustom
)

// Built-in FieldType values. Use NewCustomFieldType for Custom(name).
var (
	Text             = FieldType{kind: FieldTypeText}
	Password         = FieldType{kind: FieldTypePassword}
	Email            = FieldType{kind: FieldTypeEmail}
	URL              = FieldType{kind: FieldTypeURL}
	Username         = FieldType{kind: FieldTypeUsername}
	Phone            = FieldType{kind: FieldTypePhone}
	CreditCardNumber = FieldType{kind: FieldTypeCreditCardNumber}
	ExpiryDate       = FieldType{kind: FieldTypeExpiryDate}
	CVV              = FieldType{kind: FieldTypeCVV}
	TOTPSecret       = FieldType{kind: FieldTypeTOTPSecret}
	TextArea         = FieldType{kind: FieldTypeTextArea}
	Number           = FieldType{kind: FieldTypeNumber}
	Date             = FieldType{kind: FieldTypeDate}
)

// NewCustomFieldType constructs a Custom(name) field type. name must be
// non-empty; this constructor does not check it (FieldTypeFromToken
// rejects an empty custom name when parsing a token).
func NewCustomFieldType(name string) FieldType {
	return FieldType{kind: fieldKindCustom, custom: name}
}

// IsCustom reports whether ft is a Custom(name) variant and returns name.
func (ft FieldType) IsCustom() (string, bool) {
	if ft.kind == fieldKindCustom {
		return ft.custom, true
	}
	return "", false
}

// BuiltInFieldTypes returns every non-custom field type, in the stable
// order used for template enumeration.
func BuiltInFieldTypes() []FieldType {
	return []FieldType{
		Text, Password, Email, URL, Username, Phone, CreditCardNumber,
		ExpiryDate, CVV, TOTPSecret, TextArea, Number, Date,
	}
}

// DisplayName returns a human-readable label for ft.
func (ft FieldType) DisplayName() string {
	switch ft.kind {
	case FieldTypeText:
		return "Text"
	case FieldTypePassword:
		return "Password"
	case FieldTypeEmail:
		return "Email"
	case FieldTypeURL:
		return "URL"
	case FieldTypeUsername:
		return "Username"
	case FieldTypePhone:
		return "Phone"
	case FieldTypeCreditCardNumber:
		return "Credit Card Number"
	case FieldTypeExpiryDate:
		return "Expiry Date"
	case FieldTypeCVV:
		return "CVV"
	case FieldTypeTOTPSecret:
		return "TOTP Secret"
	case FieldTypeTextArea:
		return "Text Area"
	case FieldTypeNumber:
		return "Number"
	case FieldTypeDate:
		return "Date"
	case fieldKindCustom:
		return ft.custom
	default:
		return "Unknown"
	}
}

// IsSensitiveByDefault reports whether fields of this type should default
// to sensitive=true when a template doesn't say otherwise.
func (ft FieldType) IsSensitiveByDefault() bool {
	switch ft.kind {
	case FieldTypePassword, FieldTypeCreditCardNumber, FieldTypeCVV, FieldTypeTOTPSecret:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer for debug/log output; it never carries
// a field's value, only its type token.
func (ft FieldType) String() string {
	return ft.Token()
}

// Token returns the stable wire-format string used by the YAML codec:
// text|password|email|url|username|phone|credit_card_number|expiry_date|
// cvv|totp_secret|text_area|number|date|custom:<name>.
func (ft FieldType) Token() string {
	switch ft.kind {
	case FieldTypeText:
		return "text"
	case FieldTypePassword:
		return "password"
	case FieldTypeEmail:
		return "email"
	case FieldTypeURL:
		return "url"
	case FieldTypeUsername:
		return "username"
	case FieldTypePhone:
		return "phone"
	case FieldTypeCreditCardNumber:
		return "credit_card_number"
	case FieldTypeExpiryDate:
		return "expiry_date"
	case FieldTypeCVV:
		return "cvv"
	case FieldTypeTOTPSecret:
		return "totp_secret"
	case FieldTypeTextArea:
		return "text_area"
	case FieldTypeNumber:
		return "number"
	case FieldTypeDate:
		return "date"
	case fieldKindCustom:
		return "custom:" + ft.custom
	default:
		return "text"
	}
}

// FieldTypeFromToken parses the wire-format string produced by Token.
// Unknown non-custom tokens are rejected rather than silently coerced to
// Text, so a corrupted or future-versioned archive surfaces as an error
// rather than misrendering a field.
func FieldTypeFromToken(token string) (FieldType, error) {
	switch token {
	case "text":
		return Text, nil
	case "password":
		return Password, nil
	case "email":
		return Email, nil
	case "url":
		return URL, nil
	case "username":
		return Username, nil
	case "phone":
		return Phone, nil
	case "credit_card_number":
		return CreditCardNumber, nil
	case "expiry_date":
		return ExpiryDate, nil
	case "cvv":
		return CVV, nil
	case "totp_secret":
		return TOTPSecret, nil
	case "text_area":
		return TextArea, nil
	case "number":
		return Number, nil
	case "date":
		return Date, nil
	}
	if name, ok := strings.CutPrefix(token, "custom:"); ok && name != "" {
		return NewCustomFieldType(name), nil
	}
	return FieldType{}, fmt.Errorf("model: unknown field type token %q", token)
}

// Equal reports whether two FieldType values denote the same type.
func (ft FieldType) Equal(other FieldType) bool {
	return ft.kind == other.kind && ft.custom == other.custom
}

// MarshalJSON encodes ft as its wire token, so a FieldType's unexported
// fields don't collapse to "{}" in JSON exports/backups.
func (ft FieldType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ft.Token() + `"`), nil
}

// UnmarshalJSON decodes a wire token produced by MarshalJSON.
func (ft *FieldType) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	parsed, err := FieldTypeFromToken(token)
	if err != nil {
		return err
	}
	*ft = parsed
	return nil
}
