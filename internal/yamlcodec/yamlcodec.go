// Package yamlcodec converts between model.CredentialRecord/ArchiveMetadata
// and their on-disk YAML wire representation.
package yamlcodec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

// wireField is the on-disk shape of a CredentialField. Extra inlines
// every key not named explicitly here, so a newer writer's fields
// survive a round trip through an older reader instead of being dropped.
type wireField struct {
	Type      string            `yaml:"type"`
	Value     string            `yaml:"value"`
	Sensitive bool              `yaml:"sensitive,omitempty"`
	Label     string            `yaml:"label,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
	Extra     map[string]any    `yaml:",inline"`
}

// wireRecord is the on-disk shape of record.yml within a credential's
// directory. Extra inlines every key not named explicitly here, for the
// same forward-compatibility reason as wireField.Extra.
type wireRecord struct {
	ID         string               `yaml:"id"`
	Title      string               `yaml:"title"`
	Type       string               `yaml:"type"`
	Fields     map[string]wireField `yaml:"fields"`
	Tags       []string             `yaml:"tags,omitempty"`
	Notes      string               `yaml:"notes,omitempty"`
	FolderPath string               `yaml:"folder_path,omitempty"`
	CreatedAt  int64                `yaml:"created_at"`
	UpdatedAt  int64                `yaml:"updated_at"`
	AccessedAt int64                `yaml:"accessed_at"`
	Favorite   bool                 `yaml:"favorite,omitempty"`
	Extra      map[string]any       `yaml:",inline"`
}

// wireMetadata is the on-disk shape of the archive's metadata.yml.
type wireMetadata struct {
	Version         string            `yaml:"version"`
	CreatedAt       int64             `yaml:"created_at"`
	LastModified    int64             `yaml:"last_modified"`
	CredentialCount int               `yaml:"credential_count"`
	Metadata        map[string]string `yaml:"metadata,omitempty"`
}

// SerializeCredential renders r as YAML bytes for record.yml.
func SerializeCredential(r *model.CredentialRecord) ([]byte, error) {
	w, err := fromCredential(r)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(w)
}

// DeserializeCredential parses record.yml bytes into a CredentialRecord.
func DeserializeCredential(data []byte) (model.CredentialRecord, error) {
	var w wireRecord
	if err := yaml.Unmarshal(data, &w); err != nil {
		return model.CredentialRecord{}, fmt.Errorf("yamlcodec: parse record: %w", err)
	}
	return w.intoCredential()
}

// SerializeCredentials batch-serializes a set of records, one YAML
// document body per record, keyed by credential ID.
func SerializeCredentials(records []model.CredentialRecord) (map[string][]byte, error) {
	out := make(map[string][]byte, len(records))
	for i := range records {
		b, err := SerializeCredential(&records[i])
		if err != nil {
			return nil, fmt.Errorf("yamlcodec: serialize %s: %w", records[i].ID, err)
		}
		out[records[i].ID] = b
	}
	return out, nil
}

// DeserializeCredentials is the batch inverse of SerializeCredentials.
func DeserializeCredentials(blobs map[string][]byte) ([]model.CredentialRecord, error) {
	out := make([]model.CredentialRecord, 0, len(blobs))
	for id, b := range blobs {
		r, err := DeserializeCredential(b)
		if err != nil {
			return nil, fmt.Errorf("yamlcodec: deserialize %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ValidateYAMLSyntax reports whether data parses as well-formed YAML,
// without attempting to interpret it as a credential record.
func ValidateYAMLSyntax(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("yamlcodec: invalid yaml: %w", err)
	}
	return nil
}

// SerializeMetadata renders m as YAML bytes for the archive's
// metadata.yml.
func SerializeMetadata(m *model.ArchiveMetadata) ([]byte, error) {
	w := wireMetadata{
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		LastModified:    m.LastModified,
		CredentialCount: m.CredentialCount,
		Metadata:        m.Extra,
	}
	return yaml.Marshal(w)
}

// DeserializeMetadata parses metadata.yml bytes.
func DeserializeMetadata(data []byte) (model.ArchiveMetadata, error) {
	var w wireMetadata
	if err := yaml.Unmarshal(data, &w); err != nil {
		return model.ArchiveMetadata{}, fmt.Errorf("yamlcodec: parse metadata: %w", err)
	}
	extra := w.Metadata
	if extra == nil {
		extra = map[string]string{}
	}
	return model.ArchiveMetadata{
		Version:         w.Version,
		CreatedAt:       w.CreatedAt,
		LastModified:    w.LastModified,
		CredentialCount: w.CredentialCount,
		Extra:           extra,
	}, nil
}

func fromCredential(r *model.CredentialRecord) (wireRecord, error) {
	fields := make(map[string]wireField, len(r.Fields))
	for name, f := range r.Fields {
		fields[name] = wireField{
			Type:      f.Type.Token(),
			Value:     f.Value,
			Sensitive: f.Sensitive,
			Label:     f.Label,
			Metadata:  f.Metadata,
			Extra:     f.Extra,
		}
	}
	return wireRecord{
		ID:         r.ID,
		Title:      r.Title,
		Type:       r.CredentialType,
		Fields:     fields,
		Tags:       r.Tags,
		Notes:      r.Notes,
		FolderPath: r.FolderPath,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		AccessedAt: r.AccessedAt,
		Favorite:   r.Favorite,
		Extra:      r.Extra,
	}, nil
}

func (w wireRecord) intoCredential() (model.CredentialRecord, error) {
	fields := make(map[string]model.CredentialField, len(w.Fields))
	for name, wf := range w.Fields {
		ft, err := model.FieldTypeFromToken(wf.Type)
		if err != nil {
			return model.CredentialRecord{}, fmt.Errorf("field %q: %w", name, err)
		}
		meta := wf.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		fields[name] = model.CredentialField{
			Type:      ft,
			Value:     wf.Value,
			Sensitive: wf.Sensitive,
			Label:     wf.Label,
			Metadata:  meta,
			Extra:     wf.Extra,
		}
	}
	return model.CredentialRecord{
		ID:             w.ID,
		Title:          w.Title,
		CredentialType: w.Type,
		Fields:         fields,
		Tags:           w.Tags,
		Notes:          w.Notes,
		FolderPath:     w.FolderPath,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
		AccessedAt:     w.AccessedAt,
		Favorite:       w.Favorite,
		Extra:          w.Extra,
	}, nil
}
