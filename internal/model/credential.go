// Package model defines the repository's in-memory data types:
// credentials, fields, templates, and archive metadata.
package model

import "github.com/google/uuid"

// CredentialField is a single named value within a CredentialRecord.
type CredentialField struct {
	Type      FieldType
	Value     string
	Sensitive bool
	Label     string
	Metadata  map[string]string

	// Extra holds any wire-format keys not recognized by this version of
	// the field schema, so a newer writer's additions survive a round
	// trip through an older reader instead of being silently dropped.
	Extra map[string]any
}

// NewCredentialField builds a field of the given type and value, with
// sensitivity defaulted from the type's IsSensitiveByDefault.
func NewCredentialField(ft FieldType, value string) CredentialField {
	return CredentialField{
		Type:      ft,
		Value:     value,
		Sensitive: ft.IsSensitiveByDefault(),
		Metadata:  map[string]string{},
	}
}

// WithLabel returns a copy of f with Label set.
func (f CredentialField) WithLabel(label string) CredentialField {
	f.Label = label
	return f
}

// WithSensitive returns a copy of f with Sensitive overridden.
func (f CredentialField) WithSensitive(sensitive bool) CredentialField {
	f.Sensitive = sensitive
	return f
}

// DisplayValue returns f.Value unless f is sensitive, in which case it
// returns a fixed redaction marker. Sensitive values must never reach
// logs, error messages, or list views through this or any other path.
func (f CredentialField) DisplayValue() string {
	if f.Sensitive {
		return "***"
	}
	return f.Value
}

// CredentialRecord is one stored credential: a title, a typed bag of
// fields, and metadata used by search and organization.
type CredentialRecord struct {
	ID             string
	Title          string
	CredentialType string
	Fields         map[string]CredentialField
	Tags           []string
	Notes          string
	FolderPath     string
	CreatedAt      int64 // unix seconds
	UpdatedAt      int64 // unix seconds
	AccessedAt     int64 // unix seconds
	Favorite       bool

	// Extra holds any wire-format keys not recognized by this version of
	// the record schema, so a newer writer's additions survive a round
	// trip through an older reader instead of being silently dropped.
	Extra map[string]any
}

// NewCredentialRecord creates a record with a fresh ID and created/updated/
// accessed timestamps set to now. now is passed in rather than read from
// the clock so that callers (the repository) control time consistently.
func NewCredentialRecord(title, credentialType string, now int64) CredentialRecord {
	return CredentialRecord{
		ID:             uuid.NewString(),
		Title:          title,
		CredentialType: credentialType,
		Fields:         map[string]CredentialField{},
		Tags:           []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
		AccessedAt:     now,
	}
}

// SetField inserts or replaces the named field.
func (r *CredentialRecord) SetField(name string, field CredentialField) {
	if r.Fields == nil {
		r.Fields = map[string]CredentialField{}
	}
	r.Fields[name] = field
}

// GetField returns the named field and whether it was present.
func (r *CredentialRecord) GetField(name string) (CredentialField, bool) {
	f, ok := r.Fields[name]
	return f, ok
}

// RemoveField deletes the named field, a no-op if absent.
func (r *CredentialRecord) RemoveField(name string) {
	delete(r.Fields, name)
}

// AddTag adds tag if not already present.
func (r *CredentialRecord) AddTag(tag string) {
	if r.HasTag(tag) {
		return
	}
	r.Tags = append(r.Tags, tag)
}

// RemoveTag removes tag if present.
func (r *CredentialRecord) RemoveTag(tag string) {
	for i, t := range r.Tags {
		if t == tag {
			r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
			return
		}
	}
}

// HasTag reports whether tag is present on r.
func (r *CredentialRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SensitiveFields returns the names of fields marked sensitive.
func (r *CredentialRecord) SensitiveFields() []string {
	var names []string
	for name, f := range r.Fields {
		if f.Sensitive {
			names = append(names, name)
		}
	}
	return names
}

// Sanitized returns a copy of r, with its own Fields map and Tags slice,
// in which every sensitive field's value is replaced by its DisplayValue
// redaction. Each field's Metadata and Extra maps are shared with r. Used anywhere a record might
// be logged, exported to a non-secure sink, or displayed in a list.
func (r *CredentialRecord) Sanitized() CredentialRecord {
	out := *r
	out.Fields = make(map[string]CredentialField, len(r.Fields))
	for name, f := range r.Fields {
		if f.Sensitive {
			f.Value = "***"
		}
		out.Fields[name] = f
	}
	out.Tags = append([]string(nil), r.Tags...)
	return out
}
