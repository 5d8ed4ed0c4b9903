package fileprovider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	fileMap := map[string][]byte{
		"metadata.yml":                 []byte("version: \"1.0\"\n"),
		"credentials/abc/record.yml":   []byte("id: abc\ntitle: Example\n"),
	}

	p := NewDesktopProvider()
	archive, err := p.CreateArchive(fileMap, []byte("correct horse battery staple"))
	require.NoError(t, err)

	got, err := p.ExtractArchive(archive, []byte("correct horse battery staple"))
	require.NoError(t, err)
	assert.Equal(t, fileMap["metadata.yml"], got["metadata.yml"])
	assert.Equal(t, fileMap["credentials/abc/record.yml"], got["credentials/abc/record.yml"])
}

func TestExtractArchiveWrongPassword(t *testing.T) {
	p := NewDesktopProvider()
	archive, err := p.CreateArchive(map[string][]byte{"metadata.yml": []byte("x")}, []byte("right"))
	require.NoError(t, err)

	_, err = p.ExtractArchive(archive, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestExtractArchiveCorrupted(t *testing.T) {
	p := NewDesktopProvider()
	_, err := p.ExtractArchive([]byte("not an archive"), []byte("pw"))
	assert.ErrorIs(t, err, ErrArchiveCorrupted)
}

func TestDesktopProviderWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "vault.zlck")

	p := NewDesktopProvider()
	payload, err := p.CreateArchive(map[string][]byte{"metadata.yml": []byte("v")}, []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, p.WriteArchive(archivePath, payload))

	readBack, err := p.ReadArchive(archivePath)
	require.NoError(t, err)
	assert.Equal(t, payload, readBack)
}

func TestDesktopProviderReadArchiveNotFound(t *testing.T) {
	p := NewDesktopProvider()
	_, err := p.ReadArchive(filepath.Join(t.TempDir(), "missing.zlck"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDesktopProviderWriteArchiveReplacesPriorAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "vault.zlck")
	require.NoError(t, os.WriteFile(archivePath, []byte("original"), 0600))

	p := NewDesktopProvider()
	require.NoError(t, p.WriteArchive(archivePath, []byte("updated")))

	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), data)

	// no leftover temp or backup files
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMockProviderForcedFailure(t *testing.T) {
	m := NewMockProvider().WithFailure(true)
	_, err := m.ReadArchive("anything")
	assert.Error(t, err)
}

func TestMockProviderRoundTrip(t *testing.T) {
	m := NewMockProvider()
	archive, err := m.CreateArchive(map[string][]byte{"metadata.yml": []byte("v")}, []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, m.WriteArchive("vault.zlck", archive))

	readBack, err := m.ReadArchive("vault.zlck")
	require.NoError(t, err)

	fileMap, err := m.ExtractArchive(readBack, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), fileMap["metadata.yml"])
}
