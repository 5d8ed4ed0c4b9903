package manager

import (
	"fmt"

	"github.com/ejangi/ziplock-sub002/internal/model"
	"github.com/ejangi/ziplock-sub002/internal/secure"
)

// AddCredential validates and inserts rec into the open repository,
// marking it Open-Dirty.
func (m *Manager) AddCredential(rec model.CredentialRecord) (model.CredentialRecord, error) {
	if !m.isOpen {
		return model.CredentialRecord{}, ErrNotOpen
	}
	added, err := m.repository.Add(rec)
	if err != nil {
		return model.CredentialRecord{}, err
	}
	m.dirty = true
	return added, nil
}

// GetCredential returns the credential by id, bumping its AccessedAt.
// Per the reference implementation this counts as a mutation: it marks
// the repository Open-Dirty exactly like any other write, coupling the
// access-time bump to the unsaved-changes flag.
func (m *Manager) GetCredential(id string) (model.CredentialRecord, error) {
	if !m.isOpen {
		return model.CredentialRecord{}, ErrNotOpen
	}
	rec, err := m.repository.Get(id)
	if err != nil {
		return model.CredentialRecord{}, err
	}
	m.dirty = true
	return rec, nil
}

// GetCredentialReadOnly returns the credential by id without bumping
// AccessedAt or dirtying the repository.
func (m *Manager) GetCredentialReadOnly(id string) (model.CredentialRecord, error) {
	if !m.isOpen {
		return model.CredentialRecord{}, ErrNotOpen
	}
	return m.repository.GetReadOnly(id)
}

// UpdateCredential validates and replaces the stored credential,
// marking the repository Open-Dirty.
func (m *Manager) UpdateCredential(rec model.CredentialRecord) (model.CredentialRecord, error) {
	if !m.isOpen {
		return model.CredentialRecord{}, ErrNotOpen
	}
	updated, err := m.repository.Update(rec)
	if err != nil {
		return model.CredentialRecord{}, err
	}
	m.dirty = true
	return updated, nil
}

// DeleteCredential removes the credential by id, marking the repository
// Open-Dirty.
func (m *Manager) DeleteCredential(id string) error {
	if !m.isOpen {
		return ErrNotOpen
	}
	if err := m.repository.Delete(id); err != nil {
		return err
	}
	m.dirty = true
	return nil
}

// ContainsCredential reports whether id is present, without dirtying.
func (m *Manager) ContainsCredential(id string) (bool, error) {
	if !m.isOpen {
		return false, ErrNotOpen
	}
	return m.repository.Contains(id), nil
}

// ListCredentials returns every credential, read-only.
func (m *Manager) ListCredentials() ([]model.CredentialRecord, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	return m.repository.List(), nil
}

// ListCredentialSummaries returns a non-sensitive projection of every
// credential, suitable for list views.
func (m *Manager) ListCredentialSummaries() ([]Summary, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	records := m.repository.List()
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		out = append(out, Summary{
			ID:             r.ID,
			Title:          r.Title,
			CredentialType: r.CredentialType,
			Tags:           append([]string(nil), r.Tags...),
			Favorite:       r.Favorite,
			UpdatedAt:      r.UpdatedAt,
		})
	}
	return out, nil
}

// GetCredentialsByTag returns every credential carrying tag.
func (m *Manager) GetCredentialsByTag(tag string) ([]model.CredentialRecord, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	return m.repository.ByTag(tag), nil
}

// GetCredentialsByType returns every credential of the given type.
func (m *Manager) GetCredentialsByType(credType string) ([]model.CredentialRecord, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	return m.repository.ByType(credType), nil
}

// GetFavoriteCredentials returns every credential marked favorite.
func (m *Manager) GetFavoriteCredentials() ([]model.CredentialRecord, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	return m.repository.Favorites(), nil
}

// ImportCredentials adds every record in records, stopping at the first
// record the repository rejects (validation failure or duplicate id).
// Already-imported records in this call remain in the repository, and
// mark it Open-Dirty -- callers that need all-or-nothing semantics should
// operate on a freshly opened repository.
func (m *Manager) ImportCredentials(records []model.CredentialRecord) (int, error) {
	if !m.isOpen {
		return 0, ErrNotOpen
	}
	count := 0
	for _, rec := range records {
		if _, err := m.repository.Add(rec); err != nil {
			return count, fmt.Errorf("manager: import credential %s: %w", rec.ID, err)
		}
		count++
		m.dirty = true
	}
	return count, nil
}

// ExportCredentials returns every credential, sanitized (sensitive
// values redacted) unless includeSensitive is true.
func (m *Manager) ExportCredentials(includeSensitive bool) ([]model.CredentialRecord, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	records := m.repository.List()
	if includeSensitive {
		return records, nil
	}
	out := make([]model.CredentialRecord, len(records))
	for i, r := range records {
		out[i] = r.Sanitized()
	}
	return out, nil
}

// ClearCredentials removes every credential, marking the repository
// Open-Dirty if it held any.
func (m *Manager) ClearCredentials() error {
	if !m.isOpen {
		return ErrNotOpen
	}
	if m.repository.Count() > 0 {
		m.dirty = true
	}
	m.repository.Clear()
	return nil
}

// GetStats summarizes the open repository's contents.
func (m *Manager) GetStats() (Stats, error) {
	if !m.isOpen {
		return Stats{}, ErrNotOpen
	}
	records := m.repository.List()
	stats := Stats{
		TotalCredentials: len(records),
		TagCounts:        map[string]int{},
		TypeCounts:       map[string]int{},
	}
	for _, r := range records {
		if r.Favorite {
			stats.FavoriteCount++
		}
		stats.TypeCounts[r.CredentialType]++
		for _, tag := range r.Tags {
			stats.TagCounts[tag]++
		}
	}
	return stats, nil
}

// ChangeMasterPassword replaces the repository's master secret and
// immediately re-saves the archive under the new password, so the old
// password stops working the moment this call returns successfully.
func (m *Manager) ChangeMasterPassword(newPassword string) error {
	if !m.isOpen {
		return ErrNotOpen
	}
	prev := m.masterPassword
	m.masterPassword = secure.NewStringFromString(newPassword)
	if err := m.persist(); err != nil {
		m.masterPassword = prev
		return fmt.Errorf("manager: change master password: %w", err)
	}
	if prev != nil {
		prev.Clear()
	}
	return nil
}

// VerifyIntegrity re-checks every stored credential and the
// metadata/repository count invariant, returning a human-readable issue
// for each problem found. It performs no mutation.
func (m *Manager) VerifyIntegrity() ([]string, error) {
	if !m.isOpen {
		return nil, ErrNotOpen
	}
	return m.repository.VerifyIntegrity(m.metadata.CredentialCount), nil
}
