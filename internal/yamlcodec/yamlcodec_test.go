package yamlcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

func TestCredentialRoundTrip(t *testing.T) {
	rec := model.NewCredentialRecord("Example", "login", 1000)
	rec.Notes = "some notes"
	rec.FolderPath = "/work"
	rec.AddTag("work")
	rec.SetField("password", model.NewCredentialField(model.Password, "hunter2"))
	rec.SetField("custom_note", model.NewCredentialField(model.NewCustomFieldType("loyalty"), "12345"))

	data, err := SerializeCredential(&rec)
	require.NoError(t, err)

	got, err := DeserializeCredential(data)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Notes, got.Notes)
	assert.Equal(t, rec.FolderPath, got.FolderPath)
	assert.True(t, got.HasTag("work"))

	pw, ok := got.GetField("password")
	require.True(t, ok)
	assert.Equal(t, "hunter2", pw.Value)
	assert.True(t, pw.Sensitive)

	custom, ok := got.GetField("custom_note")
	require.True(t, ok)
	name, isCustom := custom.Type.IsCustom()
	assert.True(t, isCustom)
	assert.Equal(t, "loyalty", name)
}

func TestBatchRoundTrip(t *testing.T) {
	recs := []model.CredentialRecord{
		model.NewCredentialRecord("A", "login", 1),
		model.NewCredentialRecord("B", "login", 2),
	}
	blobs, err := SerializeCredentials(recs)
	require.NoError(t, err)
	assert.Len(t, blobs, 2)

	back, err := DeserializeCredentials(blobs)
	require.NoError(t, err)
	assert.Len(t, back, 2)
}

func TestFieldTypeTableConversion(t *testing.T) {
	cases := []struct {
		ft    model.FieldType
		token string
	}{
		{model.Text, "text"},
		{model.Password, "password"},
		{model.Email, "email"},
		{model.URL, "url"},
		{model.Username, "username"},
		{model.Phone, "phone"},
		{model.CreditCardNumber, "credit_card_number"},
		{model.ExpiryDate, "expiry_date"},
		{model.CVV, "cvv"},
		{model.TOTPSecret, "totp_secret"},
		{model.TextArea, "text_area"},
		{model.Number, "number"},
		{model.Date, "date"},
		{model.NewCustomFieldType("x"), "custom:x"},
	}
	for _, c := range cases {
		assert.Equal(t, c.token, c.ft.Token())
	}
}

func TestDeserializeCredentialUnknownFieldType(t *testing.T) {
	_, err := DeserializeCredential([]byte(`
id: x
title: t
type: login
fields:
  a:
    type: bogus
    value: v
created_at: 1
updated_at: 1
accessed_at: 1
`))
	assert.Error(t, err)
}

func TestDeserializeCredentialPreservesUnknownKeys(t *testing.T) {
	got, err := DeserializeCredential([]byte(`
id: x
title: t
type: login
fields:
  a:
    type: text
    value: v
    future_field_attr: shiny
created_at: 1
updated_at: 1
accessed_at: 1
future_record_attr: new-from-a-later-writer
`))
	require.NoError(t, err)

	assert.Equal(t, "new-from-a-later-writer", got.Extra["future_record_attr"])

	f, ok := got.GetField("a")
	require.True(t, ok)
	assert.Equal(t, "shiny", f.Extra["future_field_attr"])

	data, err := SerializeCredential(&got)
	require.NoError(t, err)
	assert.Contains(t, string(data), "future_record_attr: new-from-a-later-writer")
	assert.Contains(t, string(data), "future_field_attr: shiny")
}

func TestArchiveMetadataRoundTrip(t *testing.T) {
	m := model.NewArchiveMetadata(100)
	m.Touch(200, 5)

	data, err := SerializeMetadata(&m)
	require.NoError(t, err)

	got, err := DeserializeMetadata(data)
	require.NoError(t, err)

	assert.Equal(t, m.Version, got.Version)
	assert.Equal(t, int64(200), got.LastModified)
	assert.Equal(t, 5, got.CredentialCount)
}

func TestValidateYAMLSyntax(t *testing.T) {
	assert.NoError(t, ValidateYAMLSyntax([]byte("a: 1\n")))
	assert.Error(t, ValidateYAMLSyntax([]byte("a: [1, 2\n")))
}

func TestSensitiveFieldPreservedThroughRoundTrip(t *testing.T) {
	rec := model.NewCredentialRecord("Example", "login", 1)
	rec.SetField("cvv", model.NewCredentialField(model.CVV, "123"))

	data, err := SerializeCredential(&rec)
	require.NoError(t, err)
	got, err := DeserializeCredential(data)
	require.NoError(t, err)

	f, ok := got.GetField("cvv")
	require.True(t, ok)
	assert.True(t, f.Sensitive)
	assert.Equal(t, "123", f.Value)
}
