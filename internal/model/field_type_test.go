package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeTokenRoundTrip(t *testing.T) {
	cases := []FieldType{
		Text, Password, Email, URL, Username, Phone, CreditCardNumber,
		ExpiryDate, CVV, TOTPSecret, TextArea, Number, Date,
		NewCustomFieldType("loyalty_number"),
	}

	for _, ft := range cases {
		token := ft.Token()
		parsed, err := FieldTypeFromToken(token)
		require.NoError(t, err, token)
		assert.True(t, ft.Equal(parsed), "round trip mismatch for %s", token)
	}
}

func TestFieldTypeFromTokenUnknown(t *testing.T) {
	_, err := FieldTypeFromToken("not_a_real_type")
	assert.Error(t, err)
}

func TestFieldTypeFromTokenCustomRequiresName(t *testing.T) {
	_, err := FieldTypeFromToken("custom:")
	assert.Error(t, err)
}

func TestIsSensitiveByDefault(t *testing.T) {
	assert.True(t, Password.IsSensitiveByDefault())
	assert.True(t, CVV.IsSensitiveByDefault())
	assert.True(t, TOTPSecret.IsSensitiveByDefault())
	assert.False(t, Text.IsSensitiveByDefault())
	assert.False(t, Username.IsSensitiveByDefault())
}
