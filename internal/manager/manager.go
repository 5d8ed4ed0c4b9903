// Package manager implements the repository manager (the spec's C7
// component): the Closed/Open-Clean/Open-Dirty state machine that
// coordinates the in-memory repository, the YAML codec, a pluggable
// file provider, and -- for archive paths that live inside a cloud-sync
// provider's folder -- the cloudsync handle, through the
// create/open/mutate/save/close cycle.
//
// A Manager is not safe for concurrent use. Per the single-writer
// concurrency model, callers must serialize every call into a Manager
// themselves.
package manager

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ejangi/ziplock-sub002/internal/cloudsync"
	"github.com/ejangi/ziplock-sub002/internal/fileprovider"
	"github.com/ejangi/ziplock-sub002/internal/model"
	"github.com/ejangi/ziplock-sub002/internal/repo"
	"github.com/ejangi/ziplock-sub002/internal/secure"
	"github.com/ejangi/ziplock-sub002/internal/validate"
	"github.com/ejangi/ziplock-sub002/internal/yamlcodec"
)

// cloudLockTimeout bounds how long the manager waits to acquire the
// advisory lock cloudsync.Open takes on a cloud-synced archive path.
const cloudLockTimeout = 5 * time.Second

// Sentinel errors describing illegal state transitions.
var (
	ErrAlreadyOpen         = errors.New("manager: a repository is already open; close it first")
	ErrNotOpen             = errors.New("manager: no repository is open")
	ErrAlreadyExistsAtPath = errors.New("manager: a repository already exists at that path")
	ErrStructureMismatch   = errors.New("manager: archive structure is inconsistent")
)

// Stats summarizes the open repository's contents, for display or
// diagnostics. It never includes field values.
type Stats struct {
	TotalCredentials int
	FavoriteCount    int
	TagCounts        map[string]int
	TypeCounts       map[string]int
}

// Summary is a non-sensitive projection of a credential for list views.
type Summary struct {
	ID             string
	Title          string
	CredentialType string
	Tags           []string
	Favorite       bool
	UpdatedAt      int64
}

// Manager drives the open/mutate/save/close lifecycle of a single
// repository archive.
type Manager struct {
	fileProvider fileprovider.Provider
	validator    *validate.Validator
	repository   *repo.Repository
	metadata     model.ArchiveMetadata

	currentPath    string
	masterPassword *secure.String
	cloudHandle    *cloudsync.Handle
	isOpen         bool
	dirty          bool

	now func() int64
}

// New constructs a Manager backed by fp. The manager starts Closed.
func New(fp fileprovider.Provider) *Manager {
	v := validate.New()
	return &Manager{
		fileProvider: fp,
		validator:    v,
		repository:   repo.New(v),
		now:          func() int64 { return time.Now().Unix() },
	}
}

// SetClock overrides the manager's (and its repository's) time source,
// for deterministic tests.
func (m *Manager) SetClock(now func() int64) {
	m.now = now
	m.repository.SetClock(now)
}

// IsOpen reports whether a repository is currently open.
func (m *Manager) IsOpen() bool {
	return m.isOpen
}

// IsModified reports whether the open repository has unsaved changes
// (Open-Dirty) as opposed to Open-Clean. It is always false when Closed.
func (m *Manager) IsModified() bool {
	return m.isOpen && m.dirty
}

// CurrentPath returns the open repository's archive path, and whether a
// repository is open at all.
func (m *Manager) CurrentPath() (string, bool) {
	if !m.isOpen {
		return "", false
	}
	return m.currentPath, true
}

// CreateRepository creates a brand-new, empty repository at path sealed
// under masterPassword, and opens it (Open-Clean). It fails with
// ErrAlreadyOpen if a repository is already open, and with
// ErrAlreadyExistsAtPath if an archive already exists at path.
func (m *Manager) CreateRepository(path string, masterPassword string) error {
	if m.isOpen {
		return ErrAlreadyOpen
	}
	if _, err := m.fileProvider.ReadArchive(path); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExistsAtPath, path)
	}

	now := m.now()
	m.repository.Clear()
	m.metadata = model.NewArchiveMetadata(now)
	m.currentPath = path
	m.masterPassword = secure.NewStringFromString(masterPassword)
	m.isOpen = true
	m.dirty = false

	if err := m.persist(); err != nil {
		m.resetToClosed()
		return fmt.Errorf("manager: create repository: %w", err)
	}

	if cloudsync.IsCloudStoragePath(path) {
		handle, err := cloudsync.Open(path, cloudLockTimeout)
		if err != nil {
			m.resetToClosed()
			return fmt.Errorf("manager: create repository: %w", err)
		}
		m.cloudHandle = handle
	}
	return nil
}

// OpenRepository decrypts and loads the archive at path under
// masterPassword, entering Open-Clean. It fails with ErrAlreadyOpen if
// a repository is already open.
func (m *Manager) OpenRepository(path string, masterPassword string) (err error) {
	if m.isOpen {
		return ErrAlreadyOpen
	}

	raw, err := m.fileProvider.ReadArchive(path)
	if err != nil {
		return fmt.Errorf("manager: open repository: %w", err)
	}

	var cloudHandle *cloudsync.Handle
	if cloudsync.IsCloudStoragePath(path) {
		cloudHandle, err = cloudsync.Open(path, cloudLockTimeout)
		if err != nil {
			return fmt.Errorf("manager: open repository: %w", err)
		}
	}
	defer func() {
		if err != nil && cloudHandle != nil {
			_ = cloudHandle.Close()
		}
	}()

	fileMap, err := m.fileProvider.ExtractArchive(raw, []byte(masterPassword))
	if err != nil {
		return fmt.Errorf("manager: open repository: %w", err)
	}

	metaBytes, ok := fileMap["metadata.yml"]
	if !ok {
		return fmt.Errorf("manager: open repository: archive is missing metadata.yml")
	}
	metadata, err := yamlcodec.DeserializeMetadata(metaBytes)
	if err != nil {
		return fmt.Errorf("manager: open repository: %w", err)
	}

	newRepo := repo.New(m.validator)
	newRepo.SetClock(m.now)
	loaded := 0
	for path, data := range fileMap {
		if path == "metadata.yml" || !isRecordPath(path) {
			continue
		}
		rec, err := yamlcodec.DeserializeCredential(data)
		if err != nil {
			return fmt.Errorf("manager: open repository: parse %s: %w", path, err)
		}
		if _, err := newRepo.AddRaw(rec); err != nil {
			return fmt.Errorf("manager: open repository: load %s: %w", path, err)
		}
		loaded++
	}
	if loaded != metadata.CredentialCount {
		return fmt.Errorf("%w: metadata reports %d credentials but archive contains %d", ErrStructureMismatch, metadata.CredentialCount, loaded)
	}

	m.repository = newRepo
	m.metadata = metadata
	m.currentPath = path
	m.masterPassword = secure.NewStringFromString(masterPassword)
	m.cloudHandle = cloudHandle
	m.isOpen = true
	m.dirty = false
	return nil
}

// SaveRepository persists the open repository back to its current path
// under its current master password, and returns to Open-Clean.
func (m *Manager) SaveRepository() error {
	if !m.isOpen {
		return ErrNotOpen
	}
	if err := m.persist(); err != nil {
		return fmt.Errorf("manager: save repository: %w", err)
	}
	return nil
}

// SaveRepositoryToPath persists the open repository to a new path under
// a (possibly different) master password. On success, subsequent
// SaveRepository calls use the new path and password; on failure, the
// previous path and password stay in effect.
func (m *Manager) SaveRepositoryToPath(path string, masterPassword string) error {
	if !m.isOpen {
		return ErrNotOpen
	}
	prevPath, prevPassword, prevHandle := m.currentPath, m.masterPassword, m.cloudHandle
	m.currentPath = path
	m.masterPassword = secure.NewStringFromString(masterPassword)
	// persist() only ever checks/rebaselines the handle for the path it is
	// currently writing to; drop the old path's handle until it's either
	// restored below or replaced by one opened against the new path.
	m.cloudHandle = nil

	if err := m.persist(); err != nil {
		m.currentPath, m.masterPassword, m.cloudHandle = prevPath, prevPassword, prevHandle
		return fmt.Errorf("manager: save repository to path: %w", err)
	}

	if prevHandle != nil {
		_ = prevHandle.Close()
	}
	if cloudsync.IsCloudStoragePath(path) {
		if handle, err := cloudsync.Open(path, cloudLockTimeout); err == nil {
			m.cloudHandle = handle
		}
	}
	return nil
}

// CloseRepository closes the open repository, returning to Closed. If
// saveIfModified is true and the repository is Open-Dirty, it is saved
// first; if the save fails, the repository remains open so no data is
// lost silently.
func (m *Manager) CloseRepository(saveIfModified bool) error {
	if !m.isOpen {
		return ErrNotOpen
	}
	if saveIfModified && m.dirty {
		if err := m.persist(); err != nil {
			return fmt.Errorf("manager: close repository: %w", err)
		}
	}
	m.resetToClosed()
	return nil
}

func (m *Manager) resetToClosed() {
	if m.masterPassword != nil {
		m.masterPassword.Clear()
	}
	m.masterPassword = nil
	m.currentPath = ""
	m.isOpen = false
	m.dirty = false
	if m.cloudHandle != nil {
		_ = m.cloudHandle.Close()
		m.cloudHandle = nil
	}
	m.repository.Clear()
}

// persist serializes the repository and metadata to the file tree,
// encrypts it, and writes it to currentPath. It updates metadata's
// LastModified/CredentialCount and clears the dirty flag only once the
// write has fully succeeded. If currentPath lives inside a cloud-synced
// folder, the write is routed through the held cloudsync.Handle: a
// conflicting external change is checked for before writing, and the
// handle's baseline fingerprint is refreshed after, so this process's
// own write is never mistaken for an external conflict next time.
func (m *Manager) persist() error {
	now := m.now()
	meta := m.metadata
	meta.Touch(now, m.repository.Count())

	fileMap, err := m.repository.ExportFileMap(yamlcodec.SerializeCredential)
	if err != nil {
		return err
	}
	metaBytes, err := yamlcodec.SerializeMetadata(&meta)
	if err != nil {
		return err
	}
	fileMap["metadata.yml"] = metaBytes

	archive, err := m.fileProvider.CreateArchive(fileMap, m.masterPassword.Bytes())
	if err != nil {
		return err
	}

	if m.cloudHandle != nil {
		if err := m.cloudHandle.CheckForExternalChanges(); err != nil {
			return fmt.Errorf("manager: %w", err)
		}
	}

	if err := m.fileProvider.WriteArchive(m.currentPath, archive); err != nil {
		return err
	}
	m.metadata = meta

	if m.cloudHandle != nil {
		if err := m.cloudHandle.Rebaseline(); err != nil {
			return fmt.Errorf("manager: refresh cloud handle baseline: %w", err)
		}
	}

	m.dirty = false
	return nil
}

func isRecordPath(path string) bool {
	return strings.HasPrefix(path, "credentials/")
}
