package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejangi/ziplock-sub002/internal/fileprovider"
	"github.com/ejangi/ziplock-sub002/internal/model"
)

func newTestManager() *Manager {
	m := New(fileprovider.NewMockProvider())
	clock := int64(1000)
	m.SetClock(func() int64 { return clock })
	return m
}

func TestCreateRepositoryOpensClean(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "master-pw"))

	assert.True(t, m.IsOpen())
	assert.False(t, m.IsModified())
	path, open := m.CurrentPath()
	assert.True(t, open)
	assert.Equal(t, "vault.zlck", path)
}

func TestCreateRepositoryFailsWhenAlreadyOpen(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))

	err := m.CreateRepository("other.zlck", "pw")
	assert.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestOpenRepositoryRoundTrip(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "master-pw"))

	rec := model.NewCredentialRecord("Example", "login", 1)
	_, err := m.AddCredential(rec)
	require.NoError(t, err)
	require.NoError(t, m.SaveRepository())
	require.NoError(t, m.CloseRepository(false))

	assert.False(t, m.IsOpen())

	require.NoError(t, m.OpenRepository("vault.zlck", "master-pw"))
	assert.True(t, m.IsOpen())
	assert.False(t, m.IsModified())

	list, err := m.ListCredentials()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Example", list[0].Title)
}

func TestOperationsFailWhenNotOpen(t *testing.T) {
	m := newTestManager()
	_, err := m.AddCredential(model.NewCredentialRecord("x", "login", 1))
	assert.ErrorIs(t, err, ErrNotOpen)

	_, err = m.ListCredentials()
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.ErrorIs(t, m.SaveRepository(), ErrNotOpen)
	assert.ErrorIs(t, m.CloseRepository(false), ErrNotOpen)
}

func TestGetCredentialDirtiesRepository(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))

	rec, err := m.AddCredential(model.NewCredentialRecord("Example", "login", 1))
	require.NoError(t, err)
	require.NoError(t, m.SaveRepository())
	assert.False(t, m.IsModified())

	_, err = m.GetCredential(rec.ID)
	require.NoError(t, err)
	assert.True(t, m.IsModified())
}

func TestCloseWithUnsavedChangesSavesWhenRequested(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))
	_, err := m.AddCredential(model.NewCredentialRecord("Example", "login", 1))
	require.NoError(t, err)

	require.NoError(t, m.CloseRepository(true))
	require.NoError(t, m.OpenRepository("vault.zlck", "pw"))

	list, err := m.ListCredentials()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChangeMasterPasswordResaves(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "old-pw"))
	_, err := m.AddCredential(model.NewCredentialRecord("Example", "login", 1))
	require.NoError(t, err)
	require.NoError(t, m.SaveRepository())

	require.NoError(t, m.ChangeMasterPassword("new-pw"))
	require.NoError(t, m.CloseRepository(false))

	err = m.OpenRepository("vault.zlck", "old-pw")
	assert.Error(t, err)

	require.NoError(t, m.OpenRepository("vault.zlck", "new-pw"))
}

func TestGetStats(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))

	a, err := m.AddCredential(model.NewCredentialRecord("A", "login", 1))
	require.NoError(t, err)
	a.Favorite = true
	a.AddTag("work")
	_, err = m.UpdateCredential(a)
	require.NoError(t, err)

	_, err = m.AddCredential(model.NewCredentialRecord("B", "secure_note", 1))
	require.NoError(t, err)

	stats, err := m.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCredentials)
	assert.Equal(t, 1, stats.FavoriteCount)
	assert.Equal(t, 1, stats.TagCounts["work"])
	assert.Equal(t, 1, stats.TypeCounts["secure_note"])
}

func TestVerifyIntegrityClean(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))
	_, err := m.AddCredential(model.NewCredentialRecord("A", "login", 1))
	require.NoError(t, err)
	require.NoError(t, m.SaveRepository())

	issues, err := m.VerifyIntegrity()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestGetCredentialsByTagTypeFavorite(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))

	a, err := m.AddCredential(model.NewCredentialRecord("A", "login", 1))
	require.NoError(t, err)
	a.AddTag("work")
	a.Favorite = true
	_, err = m.UpdateCredential(a)
	require.NoError(t, err)

	byTag, err := m.GetCredentialsByTag("work")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)

	byType, err := m.GetCredentialsByType("login")
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	favs, err := m.GetFavoriteCredentials()
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestCloudSyncedPathDetectsExternalConflict(t *testing.T) {
	dir := t.TempDir()
	// "Dropbox" in the path is what routes this through the cloudsync
	// handle instead of a plain write.
	path := filepath.Join(dir, "Dropbox", "vault.zlck")

	m := New(fileprovider.NewDesktopProvider())
	clock := int64(1000)
	m.SetClock(func() int64 { return clock })

	require.NoError(t, m.CreateRepository(path, "pw"))
	_, err := m.AddCredential(model.NewCredentialRecord("Example", "login", 1))
	require.NoError(t, err)
	require.NoError(t, m.SaveRepository())

	// Simulate a cloud-sync client overwriting the file out of band while
	// it's still open here.
	require.NoError(t, os.WriteFile(path, []byte("external-overwrite-from-sync-client"), 0o600))

	_, err = m.AddCredential(model.NewCredentialRecord("Another", "login", 1))
	require.NoError(t, err)
	err = m.SaveRepository()
	assert.Error(t, err)
}

func TestExportCredentialsRedactsSensitiveByDefault(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.CreateRepository("vault.zlck", "pw"))

	rec := model.NewCredentialRecord("A", "login", 1)
	rec.SetField("password", model.NewCredentialField(model.Password, "hunter2"))
	_, err := m.AddCredential(rec)
	require.NoError(t, err)

	exported, err := m.ExportCredentials(false)
	require.NoError(t, err)
	assert.Equal(t, "***", exported[0].Fields["password"].Value)

	exportedFull, err := m.ExportCredentials(true)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", exportedFull[0].Fields["password"].Value)
}
