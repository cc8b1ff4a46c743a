// internal/common/validation/intake_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSubmission(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		fullName  string
		phone     string
		wantValid bool
		wantFatal bool
		wantField string
	}{
		{
			name:      "complete submission",
			email:     "ada@example.com",
			fullName:  "Ada Lovelace",
			phone:     "+15551234567",
			wantValid: true,
		},
		{
			name:      "missing email is fatal",
			fullName:  "Ada Lovelace",
			wantFatal: true,
			wantField: "email",
		},
		{
			name:      "whitespace email is fatal",
			email:     "   ",
			fullName:  "Ada Lovelace",
			wantFatal: true,
			wantField: "email",
		},
		{
			name:      "malformed email is advisory",
			email:     "not-an-email",
			fullName:  "Ada Lovelace",
			wantField: "email",
		},
		{
			name:      "bad phone is advisory",
			email:     "ada@example.com",
			fullName:  "Ada Lovelace",
			phone:     "12",
			wantField: "phone",
		},
		{
			name:      "empty phone is fine",
			email:     "ada@example.com",
			fullName:  "Ada Lovelace",
			wantValid: true,
		},
		{
			name:      "empty name is advisory",
			email:     "ada@example.com",
			wantField: "fullName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckSubmission(tt.email, tt.fullName, tt.phone)

			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantFatal, res.Fatal)
			if tt.wantField != "" {
				assert.True(t, res.HasErrors(tt.wantField))
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ada@example.com"))
	assert.True(t, ValidateEmail("a.b+tag@sub.example.co"))
	assert.False(t, ValidateEmail("ada@example"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 123-4567"))
	assert.True(t, ValidatePhone("5551234567"))
	assert.False(t, ValidatePhone("12"))
	assert.False(t, ValidatePhone("call me"))
}
