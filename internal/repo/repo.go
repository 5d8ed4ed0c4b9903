// Package repo implements the in-memory credential repository (the
// spec's Memory Repository component): a validated, indexed collection
// of model.CredentialRecord values with no knowledge of persistence.
package repo

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ejangi/ziplock-sub002/internal/model"
	"github.com/ejangi/ziplock-sub002/internal/validate"
)

// Sentinel errors surfaced by Repository operations.
var (
	ErrNotFound      = errors.New("repo: credential not found")
	ErrAlreadyExists = errors.New("repo: credential with that id already exists")
)

// Repository holds credentials keyed by ID. It is not safe for
// concurrent use; callers (the repository manager) must serialize
// access, per the single-writer concurrency model.
type Repository struct {
	credentials map[string]model.CredentialRecord
	validator   *validate.Validator
	now         func() int64
}

// New constructs an empty Repository using v for validation.
func New(v *validate.Validator) *Repository {
	return &Repository{
		credentials: map[string]model.CredentialRecord{},
		validator:   v,
		now:         func() int64 { return time.Now().Unix() },
	}
}

// SetClock overrides the repository's time source, for deterministic
// tests of timestamp-sensitive behavior.
func (r *Repository) SetClock(now func() int64) {
	r.now = now
}

// Add validates and inserts a new credential. The record's ID must not
// already be present; created_at/updated_at/accessed_at are stamped to
// the current time regardless of what the caller supplied, so callers
// cannot forge history on creation.
func (r *Repository) Add(rec model.CredentialRecord) (model.CredentialRecord, error) {
	if rec.ID == "" {
		return model.CredentialRecord{}, fmt.Errorf("repo: credential id must not be empty")
	}
	if _, exists := r.credentials[rec.ID]; exists {
		return model.CredentialRecord{}, fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}
	if err := r.validator.ValidateRecord(&rec); err != nil {
		return model.CredentialRecord{}, err
	}

	now := r.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.AccessedAt = now

	r.credentials[rec.ID] = rec
	return rec, nil
}

// AddRaw inserts rec as-is, without re-stamping timestamps or requiring
// validation. It is used only to reconstruct a repository from an
// already-validated archive file tree (the manager's OpenRepository),
// never by ordinary mutation paths.
func (r *Repository) AddRaw(rec model.CredentialRecord) (model.CredentialRecord, error) {
	if rec.ID == "" {
		return model.CredentialRecord{}, fmt.Errorf("repo: credential id must not be empty")
	}
	if _, exists := r.credentials[rec.ID]; exists {
		return model.CredentialRecord{}, fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}
	r.credentials[rec.ID] = rec
	return rec, nil
}

// Get returns the credential by id and marks it accessed, bumping
// AccessedAt to the current time. Per the reference implementation,
// an access-time bump is itself a repository mutation: it dirties the
// owning manager's unsaved-changes flag the same as any other write.
func (r *Repository) Get(id string) (model.CredentialRecord, error) {
	rec, ok := r.credentials[id]
	if !ok {
		return model.CredentialRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rec.AccessedAt = r.now()
	r.credentials[id] = rec
	return rec, nil
}

// GetReadOnly returns the credential by id without updating AccessedAt
// or dirtying the repository. Used by the manager's GetCredentialReadOnly.
func (r *Repository) GetReadOnly(id string) (model.CredentialRecord, error) {
	rec, ok := r.credentials[id]
	if !ok {
		return model.CredentialRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// Update validates and replaces the stored credential, preserving its
// original CreatedAt and ID regardless of what the caller's rec holds,
// and bumping UpdatedAt to now.
func (r *Repository) Update(rec model.CredentialRecord) (model.CredentialRecord, error) {
	existing, ok := r.credentials[rec.ID]
	if !ok {
		return model.CredentialRecord{}, fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	if err := r.validator.ValidateRecord(&rec); err != nil {
		return model.CredentialRecord{}, err
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.now()
	r.credentials[rec.ID] = rec
	return rec, nil
}

// Delete removes the credential by id.
func (r *Repository) Delete(id string) error {
	if _, ok := r.credentials[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.credentials, id)
	return nil
}

// Contains reports whether id is present, without mutating AccessedAt.
func (r *Repository) Contains(id string) bool {
	_, ok := r.credentials[id]
	return ok
}

// Count returns the number of stored credentials.
func (r *Repository) Count() int {
	return len(r.credentials)
}

// List returns every credential, read-only (no AccessedAt mutation),
// sorted by ID for deterministic iteration order.
func (r *Repository) List() []model.CredentialRecord {
	out := make([]model.CredentialRecord, 0, len(r.credentials))
	for _, rec := range r.credentials {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByTag returns every credential carrying tag.
func (r *Repository) ByTag(tag string) []model.CredentialRecord {
	var out []model.CredentialRecord
	for _, rec := range r.List() {
		if rec.HasTag(tag) {
			out = append(out, rec)
		}
	}
	return out
}

// ByType returns every credential whose CredentialType equals credType.
func (r *Repository) ByType(credType string) []model.CredentialRecord {
	var out []model.CredentialRecord
	for _, rec := range r.List() {
		if rec.CredentialType == credType {
			out = append(out, rec)
		}
	}
	return out
}

// Favorites returns every credential marked favorite.
func (r *Repository) Favorites() []model.CredentialRecord {
	var out []model.CredentialRecord
	for _, rec := range r.List() {
		if rec.Favorite {
			out = append(out, rec)
		}
	}
	return out
}

// Clear removes every credential.
func (r *Repository) Clear() {
	r.credentials = map[string]model.CredentialRecord{}
}

// ExportFileMap serializes every credential into a path->bytes map
// matching the archive's file-tree layout (credentials/<id>/record.yml),
// for the file provider to write out.
func (r *Repository) ExportFileMap(serialize func(*model.CredentialRecord) ([]byte, error)) (map[string][]byte, error) {
	out := make(map[string][]byte, len(r.credentials))
	for id, rec := range r.credentials {
		data, err := serialize(&rec)
		if err != nil {
			return nil, fmt.Errorf("repo: export %s: %w", id, err)
		}
		out[fmt.Sprintf("credentials/%s/record.yml", id)] = data
	}
	return out, nil
}

// VerifyIntegrity re-validates every stored credential and returns a
// human-readable issue for each one that fails, plus a check that the
// in-memory count matches the expected metadata count. It never
// mutates the repository.
func (r *Repository) VerifyIntegrity(expectedCount int) []string {
	var issues []string
	if got := r.Count(); got != expectedCount {
		issues = append(issues, fmt.Sprintf("credential count mismatch: metadata says %d, repository holds %d", expectedCount, got))
	}
	for id, rec := range r.credentials {
		rec := rec
		if err := r.validator.ValidateRecord(&rec); err != nil {
			issues = append(issues, fmt.Sprintf("credential %s: %s", id, err.Error()))
		}
		if rec.UpdatedAt < rec.CreatedAt {
			issues = append(issues, fmt.Sprintf("credential %s: updated_at precedes created_at", id))
		}
	}
	return issues
}
