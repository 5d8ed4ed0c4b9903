package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejangi/ziplock-sub002/internal/model"
	"github.com/ejangi/ziplock-sub002/internal/validate"
)

func newTestRepo() *Repository {
	return New(validate.New())
}

func TestAddAndGet(t *testing.T) {
	r := newTestRepo()
	rec := model.NewCredentialRecord("Example", "login", 1)

	added, err := r.Add(rec)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count())

	got, err := r.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.Title, got.Title)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	r := newTestRepo()
	rec := model.NewCredentialRecord("Example", "login", 1)
	added, err := r.Add(rec)
	require.NoError(t, err)

	_, err = r.Add(added)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	r := newTestRepo()
	rec := model.NewCredentialRecord("", "login", 1)
	_, err := r.Add(rec)
	assert.Error(t, err)
}

func TestGetBumpsAccessedAt(t *testing.T) {
	r := newTestRepo()
	clock := int64(100)
	r.SetClock(func() int64 { return clock })

	added, err := r.Add(model.NewCredentialRecord("Example", "login", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(100), added.AccessedAt)

	clock = 200
	got, err := r.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.AccessedAt)
}

func TestGetReadOnlyDoesNotBumpAccessedAt(t *testing.T) {
	r := newTestRepo()
	clock := int64(100)
	r.SetClock(func() int64 { return clock })

	added, err := r.Add(model.NewCredentialRecord("Example", "login", 0))
	require.NoError(t, err)

	clock = 200
	got, err := r.GetReadOnly(added.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.AccessedAt)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	r := newTestRepo()
	clock := int64(100)
	r.SetClock(func() int64 { return clock })

	added, err := r.Add(model.NewCredentialRecord("Example", "login", 0))
	require.NoError(t, err)

	clock = 300
	added.Title = "Renamed"
	updated, err := r.Update(added)
	require.NoError(t, err)

	assert.Equal(t, int64(100), updated.CreatedAt)
	assert.Equal(t, int64(300), updated.UpdatedAt)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	r := newTestRepo()
	_, err := r.Update(model.NewCredentialRecord("X", "login", 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	r := newTestRepo()
	added, err := r.Add(model.NewCredentialRecord("Example", "login", 1))
	require.NoError(t, err)

	require.NoError(t, r.Delete(added.ID))
	assert.False(t, r.Contains(added.ID))
	assert.ErrorIs(t, r.Delete(added.ID), ErrNotFound)
}

func TestByTagByTypeFavorites(t *testing.T) {
	r := newTestRepo()
	a, _ := r.Add(model.NewCredentialRecord("A", "login", 1))
	a.AddTag("work")
	a.Favorite = true
	_, err := r.Update(a)
	require.NoError(t, err)

	_, err = r.Add(model.NewCredentialRecord("B", "secure_note", 1))
	require.NoError(t, err)

	assert.Len(t, r.ByTag("work"), 1)
	assert.Len(t, r.ByType("secure_note"), 1)
	assert.Len(t, r.Favorites(), 1)
}

func TestVerifyIntegrityDetectsCountMismatch(t *testing.T) {
	r := newTestRepo()
	_, err := r.Add(model.NewCredentialRecord("A", "login", 1))
	require.NoError(t, err)

	issues := r.VerifyIntegrity(5)
	require.NotEmpty(t, issues)
}

func TestVerifyIntegrityClean(t *testing.T) {
	r := newTestRepo()
	_, err := r.Add(model.NewCredentialRecord("A", "login", 1))
	require.NoError(t, err)

	assert.Empty(t, r.VerifyIntegrity(1))
}
