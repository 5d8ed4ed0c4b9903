package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonTemplatesLoginCreatesExpectedFields(t *testing.T) {
	tmpl := CommonTemplates.Login()
	rec, err := tmpl.CreateCredential("Example Site", 1000)
	require.NoError(t, err)

	assert.Equal(t, "login", rec.CredentialType)
	_, ok := rec.GetField("username")
	assert.True(t, ok)
	pw, ok := rec.GetField("password")
	require.True(t, ok)
	assert.True(t, pw.Sensitive)
}

func TestCreateCredentialRejectsEmptyTitle(t *testing.T) {
	tmpl := CommonTemplates.SecureNote()
	_, err := tmpl.CreateCredential("", 1000)
	assert.Error(t, err)
}

func TestWifiTemplateAppliesDefaultTags(t *testing.T) {
	tmpl := CommonTemplates.WifiNetwork()
	rec, err := tmpl.CreateCredential("Home WiFi", 1000)
	require.NoError(t, err)
	assert.True(t, rec.HasTag("wifi"))
}
