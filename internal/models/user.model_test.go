package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInitials(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		expected  string
	}{
		{name: "Both names", firstName: "Kara", lastName: "Diaz", expected: "KD"},
		{name: "First name only", firstName: "Kara", lastName: "", expected: "KA"},
		{name: "Last name only", firstName: "", lastName: "Diaz", expected: "DI"},
		{name: "Single letter first name", firstName: "K", lastName: "", expected: "K"},
		{name: "Lowercase input", firstName: "kara", lastName: "diaz", expected: "KD"},
		{name: "Whitespace trimmed", firstName: " Kara ", lastName: " Diaz ", expected: "KD"},
		{name: "Empty", firstName: "", lastName: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveInitials(tt.firstName, tt.lastName))
		})
	}
}

func TestAuditAuthor(t *testing.T) {
	user := User{Initials: "KD", DisplayName: "Kara Diaz", OIDCUserID: "oidc-123"}
	assert.Equal(t, "KD", user.AuditAuthor())

	user.Initials = ""
	assert.Equal(t, "Kara Diaz", user.AuditAuthor())

	user.DisplayName = ""
	assert.Equal(t, "oidc-123", user.AuditAuthor())
}

func TestUpdateFromOIDC(t *testing.T) {
	user := User{}
	email := "kara@example.com"
	name := "Kara Diaz"

	user.UpdateFromOIDC("oidc-123", &email, &name, "Kara", "Diaz", "zitadel", true)

	assert.Equal(t, "oidc-123", user.OIDCUserID)
	assert.Equal(t, &email, user.Email)
	assert.Equal(t, "Kara Diaz", user.FullName)
	assert.Equal(t, "Kara Diaz", user.DisplayName)
	assert.Equal(t, "KD", user.Initials)
	assert.True(t, user.ProfileVerified)
	assert.NotNil(t, user.LastLoginAt)
}
