package model

import "fmt"

// FieldTemplate describes one field slot of a CredentialTemplate: its
// name, type, default sensitivity/label, and whether it must be present
// on every credential created from the template.
type FieldTemplate struct {
	Name      string
	Type      FieldType
	Label     string
	Sensitive bool
	Required  bool
	Default   string
}

// CredentialTemplate is a named shape for quickly creating credentials
// of a common kind (login, credit card, note, ...).
type CredentialTemplate struct {
	Name           string
	CredentialType string
	Fields         []FieldTemplate
	DefaultTags    []string
}

// CreateCredential builds a CredentialRecord from t, populating every
// field slot's default value (or an empty value if none) and tagging
// the record with the template's DefaultTags. now is the creation
// timestamp, owned by the caller so the repository's clock stays
// authoritative.
func (t CredentialTemplate) CreateCredential(title string, now int64) (CredentialRecord, error) {
	if title == "" {
		return CredentialRecord{}, fmt.Errorf("model: template %q: title must not be empty", t.Name)
	}

	rec := NewCredentialRecord(title, t.CredentialType, now)
	for _, ft := range t.Fields {
		field := NewCredentialField(ft.Type, ft.Default)
		field.Label = ft.Label
		field.Sensitive = ft.Sensitive
		rec.SetField(ft.Name, field)
	}
	rec.Tags = append(rec.Tags, t.DefaultTags...)
	return rec, nil
}

// CommonTemplates provides the built-in credential templates shipped
// with the repository: Login, CreditCard, SecureNote, and WifiNetwork.
var CommonTemplates = struct {
	Login       func() CredentialTemplate
	CreditCard  func() CredentialTemplate
	SecureNote  func() CredentialTemplate
	WifiNetwork func() CredentialTemplate
}{
	Login: func() CredentialTemplate {
		return CredentialTemplate{
			Name:           "Login",
			CredentialType: "login",
			Fields: []FieldTemplate{
				{Name: "username", Type: Username, Label: "Username", Required: true},
				{Name: "password", Type: Password, Label: "Password", Sensitive: true, Required: true},
				{Name: "url", Type: URL, Label: "Website"},
				{Name: "totp", Type: TOTPSecret, Label: "2FA Secret", Sensitive: true},
			},
		}
	},
	CreditCard: func() CredentialTemplate {
		return CredentialTemplate{
			Name:           "Credit Card",
			CredentialType: "credit_card",
			Fields: []FieldTemplate{
				{Name: "cardholder", Type: Text, Label: "Cardholder Name", Required: true},
				{Name: "number", Type: CreditCardNumber, Label: "Card Number", Sensitive: true, Required: true},
				{Name: "expiry", Type: ExpiryDate, Label: "Expiry Date", Required: true},
				{Name: "cvv", Type: CVV, Label: "CVV", Sensitive: true, Required: true},
			},
		}
	},
	SecureNote: func() CredentialTemplate {
		return CredentialTemplate{
			Name:           "Secure Note",
			CredentialType: "secure_note",
			Fields: []FieldTemplate{
				{Name: "content", Type: TextArea, Label: "Note", Sensitive: true},
			},
		}
	},
	WifiNetwork: func() CredentialTemplate {
		return CredentialTemplate{
			Name:           "WiFi Network",
			CredentialType: "wifi",
			Fields: []FieldTemplate{
				{Name: "ssid", Type: Text, Label: "Network Name", Required: true},
				{Name: "password", Type: Password, Label: "Password", Sensitive: true},
			},
			DefaultTags: []string{"wifi"},
		}
	},
}
