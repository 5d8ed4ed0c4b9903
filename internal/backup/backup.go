// Package backup implements export, import, and format migration for
// repository contents -- a feature present in the original Rust
// implementation's BackupManager/MigrationManager but dropped from the
// distilled specification. It operates entirely on already-validated
// model.CredentialRecord values and never bypasses the repository's
// invariants.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ejangi/ziplock-sub002/internal/crypto"
	"github.com/ejangi/ziplock-sub002/internal/model"
)

// Format identifies the serialization used for a backup or export.
type Format string

const (
	FormatJSON         Format = "json"
	FormatCSV          Format = "csv"
	FormatYAML         Format = "yaml"
	FormatZiplockBackup Format = "ziplock_backup"
)

// ziplockBackupMagic identifies an encrypted native backup file, written
// before the AES-GCM payload so a reader can distinguish this format
// from a plain export without attempting decryption first.
const ziplockBackupMagic = "ZLBV1.0\n"

// Options controls what CreateBackup/ExportRepository include.
// IncludeMetadata is not consulted: every backup carries its Metadata.
type Options struct {
	IncludeSensitive bool
	IncludeMetadata  bool
	RequiredTags     []string
	CredentialType   string
}

// Metadata describes a backup's provenance.
type Metadata struct {
	CreatedAt       int64  `json:"created_at" yaml:"created_at"`
	SourceVersion   string `json:"source_version" yaml:"source_version"`
	CredentialCount int    `json:"credential_count" yaml:"credential_count"`
}

// Data is the full contents of a backup: its metadata, the selected
// credentials, and a checksum over the credential payload used by
// VerifyBackup.
type Data struct {
	Metadata    Metadata                  `json:"metadata" yaml:"metadata"`
	Credentials []model.CredentialRecord  `json:"credentials" yaml:"credentials"`
	Checksum    string                    `json:"checksum" yaml:"checksum"`
}

// Stats summarizes a backup without decoding it into full records.
type Stats struct {
	CredentialCount int
	CreatedAt       int64
	SourceVersion   string
}

// Manager creates, exports, imports, and verifies backups.
type Manager struct {
	now func() int64
}

// NewManager constructs a Manager using the real clock.
func NewManager() *Manager {
	return &Manager{now: func() int64 { return time.Now().Unix() }}
}

// SetClock overrides the manager's time source, for deterministic tests.
func (m *Manager) SetClock(now func() int64) {
	m.now = now
}

// filterCredentials applies opts' tag/type filter and, unless
// IncludeSensitive is set, redacts every sensitive field value.
func filterCredentials(records []model.CredentialRecord, opts Options) []model.CredentialRecord {
	out := make([]model.CredentialRecord, 0, len(records))
	for _, rec := range records {
		if opts.CredentialType != "" && rec.CredentialType != opts.CredentialType {
			continue
		}
		ok := true
		for _, tag := range opts.RequiredTags {
			if !rec.HasTag(tag) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if opts.IncludeSensitive {
			out = append(out, rec)
		} else {
			out = append(out, rec.Sanitized())
		}
	}
	return out
}

// CreateBackup builds a Data value from records under opts, computing
// its checksum over the selected, filtered credentials.
func (m *Manager) CreateBackup(records []model.CredentialRecord, sourceVersion string, opts Options) (Data, error) {
	filtered := filterCredentials(records, opts)

	checksum, err := checksumFor(filtered)
	if err != nil {
		return Data{}, fmt.Errorf("backup: checksum: %w", err)
	}

	return Data{
		Metadata: Metadata{
			CreatedAt:       m.now(),
			SourceVersion:   sourceVersion,
			CredentialCount: len(filtered),
		},
		Credentials: filtered,
		Checksum:    checksum,
	}, nil
}

// VerifyBackup recomputes the checksum over data's credentials and
// compares it against the stored one.
func VerifyBackup(data Data) error {
	got, err := checksumFor(data.Credentials)
	if err != nil {
		return fmt.Errorf("backup: checksum: %w", err)
	}
	if got != data.Checksum {
		return fmt.Errorf("backup: checksum mismatch: backup data does not match its recorded checksum")
	}
	return nil
}

// GetBackupStats summarizes data without requiring the caller to
// inspect every credential.
func GetBackupStats(data Data) Stats {
	return Stats{
		CredentialCount: data.Metadata.CredentialCount,
		CreatedAt:       data.Metadata.CreatedAt,
		SourceVersion:   data.Metadata.SourceVersion,
	}
}

func checksumFor(records []model.CredentialRecord) (string, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// ExportRepository serializes records under opts into the given format.
// FormatZiplockBackup requires password to be non-empty.
func (m *Manager) ExportRepository(records []model.CredentialRecord, sourceVersion string, format Format, opts Options, password string) ([]byte, error) {
	data, err := m.CreateBackup(records, sourceVersion, opts)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		return yaml.Marshal(data)
	case FormatCSV:
		return exportCSV(data.Credentials)
	case FormatZiplockBackup:
		if password == "" {
			return nil, fmt.Errorf("backup: %s export requires a password", FormatZiplockBackup)
		}
		return exportEncrypted(data, password)
	default:
		return nil, fmt.Errorf("backup: unknown export format %q", format)
	}
}

// ImportBackup decodes data, auto-detecting the native encrypted backup
// format by its magic header and otherwise parsing as JSON.
func ImportBackup(raw []byte, password string) (Data, error) {
	if len(raw) >= len(ziplockBackupMagic) && string(raw[:len(ziplockBackupMagic)]) == ziplockBackupMagic {
		if password == "" {
			return Data{}, fmt.Errorf("backup: encrypted backup requires a password")
		}
		return importEncrypted(raw, password)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("backup: parse backup: %w", err)
	}
	return data, nil
}

func exportEncrypted(data Data, password string) ([]byte, error) {
	plain, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	svc := crypto.NewService()
	salt, err := svc.GenerateSalt()
	if err != nil {
		return nil, err
	}
	iterations := crypto.IterationsFromEnv()
	key, err := svc.DeriveKey([]byte(password), salt, iterations)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	ciphertext, err := svc.Encrypt(plain, key)
	if err != nil {
		return nil, err
	}

	out := []byte(ziplockBackupMagic)
	out = append(out, byte(iterations>>24), byte(iterations>>16), byte(iterations>>8), byte(iterations))
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return out, nil
}

func importEncrypted(raw []byte, password string) (Data, error) {
	rest := raw[len(ziplockBackupMagic):]
	if len(rest) < 4+crypto.SaltLength {
		return Data{}, fmt.Errorf("backup: encrypted backup truncated")
	}
	iterations := int(rest[0])<<24 | int(rest[1])<<16 | int(rest[2])<<8 | int(rest[3])
	salt := rest[4 : 4+crypto.SaltLength]
	ciphertext := rest[4+crypto.SaltLength:]

	svc := crypto.NewService()
	key, err := svc.DeriveKey([]byte(password), salt, iterations)
	if err != nil {
		return Data{}, err
	}
	defer crypto.ClearBytes(key)

	plain, err := svc.Decrypt(ciphertext, key)
	if err != nil {
		return Data{}, fmt.Errorf("backup: decrypt: %w", err)
	}

	var data Data
	if err := json.Unmarshal(plain, &data); err != nil {
		return Data{}, fmt.Errorf("backup: parse decrypted backup: %w", err)
	}
	return data, nil
}
