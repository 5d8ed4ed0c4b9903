package model

// ArchiveMetadata is the top-level manifest stored at the root of the
// archive's file tree, alongside the per-credential directories.
type ArchiveMetadata struct {
	Version         string
	CreatedAt       int64
	LastModified    int64
	CredentialCount int
	Extra           map[string]string
}

// NewArchiveMetadata builds metadata for a freshly created archive.
func NewArchiveMetadata(now int64) ArchiveMetadata {
	return ArchiveMetadata{
		Version:         "1.0",
		CreatedAt:       now,
		LastModified:    now,
		CredentialCount: 0,
		Extra:           map[string]string{},
	}
}

// Touch updates LastModified and CredentialCount to reflect the current
// repository state. Called every time the manager persists the archive.
func (m *ArchiveMetadata) Touch(now int64, credentialCount int) {
	m.LastModified = now
	m.CredentialCount = credentialCount
}
