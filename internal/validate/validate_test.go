package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

func TestValidateFieldEmailRequiresAt(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateField(model.NewCredentialField(model.Email, "")))
	assert.Error(t, v.ValidateField(model.NewCredentialField(model.Email, "not-an-email")))
	assert.NoError(t, v.ValidateField(model.NewCredentialField(model.Email, "a@b.com")))
}

func TestValidateFieldURLRequiresHTTPPrefix(t *testing.T) {
	v := New()
	assert.Error(t, v.ValidateField(model.NewCredentialField(model.URL, "example.com")))
	assert.NoError(t, v.ValidateField(model.NewCredentialField(model.URL, "https://example.com")))
}

func TestValidateFieldCreditCardRequiresDigits(t *testing.T) {
	v := New()
	assert.Error(t, v.ValidateField(model.NewCredentialField(model.CreditCardNumber, "123")))
	assert.NoError(t, v.ValidateField(model.NewCredentialField(model.CreditCardNumber, "4111 1111 1111 1111")))
}

func TestValidateFieldTOTPSecretRequiresBase32(t *testing.T) {
	v := New()
	assert.Error(t, v.ValidateField(model.NewCredentialField(model.TOTPSecret, "not valid base32!!")))
	assert.NoError(t, v.ValidateField(model.NewCredentialField(model.TOTPSecret, "JBSWY3DPEHPK3PXP")))
}

func TestValidateRecordCollectsAllIssues(t *testing.T) {
	v := New()
	rec := model.NewCredentialRecord("", "login", 1)
	rec.SetField("email", model.NewCredentialField(model.Email, "bad"))

	err := v.ValidateRecord(&rec)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 2)
}

func TestValidateRecordValid(t *testing.T) {
	v := New()
	rec := model.NewCredentialRecord("Example", "login", 1)
	rec.SetField("email", model.NewCredentialField(model.Email, "a@b.com"))
	assert.NoError(t, v.ValidateRecord(&rec))
}
