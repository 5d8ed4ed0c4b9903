package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialRecordHasUniqueID(t *testing.T) {
	r1 := NewCredentialRecord("a", "login", 100)
	r2 := NewCredentialRecord("b", "login", 100)
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, int64(100), r1.CreatedAt)
	assert.Equal(t, int64(100), r1.UpdatedAt)
	assert.Equal(t, int64(100), r1.AccessedAt)
}

func TestSetGetRemoveField(t *testing.T) {
	r := NewCredentialRecord("site", "login", 1)
	r.SetField("password", NewCredentialField(Password, "hunter2"))

	f, ok := r.GetField("password")
	require.True(t, ok)
	assert.Equal(t, "hunter2", f.Value)
	assert.True(t, f.Sensitive)

	r.RemoveField("password")
	_, ok = r.GetField("password")
	assert.False(t, ok)
}

func TestTagHelpers(t *testing.T) {
	r := NewCredentialRecord("site", "login", 1)
	r.AddTag("work")
	r.AddTag("work")
	assert.Len(t, r.Tags, 1)
	assert.True(t, r.HasTag("work"))

	r.RemoveTag("work")
	assert.False(t, r.HasTag("work"))
}

func TestSanitizedRedactsSensitiveFields(t *testing.T) {
	r := NewCredentialRecord("site", "login", 1)
	r.SetField("password", NewCredentialField(Password, "hunter2"))
	r.SetField("username", NewCredentialField(Username, "alice"))

	s := r.Sanitized()
	assert.Equal(t, "***", s.Fields["password"].Value)
	assert.Equal(t, "alice", s.Fields["username"].Value)
	// original is untouched
	assert.Equal(t, "hunter2", r.Fields["password"].Value)
}

func TestDisplayValueRedactsSensitive(t *testing.T) {
	f := NewCredentialField(Password, "hunter2")
	assert.Equal(t, "***", f.DisplayValue())

	f2 := NewCredentialField(Username, "alice")
	assert.Equal(t, "alice", f2.DisplayValue())
}
