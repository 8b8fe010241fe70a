package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng&Secure!pass", false},
		{"too short", "Sh0rt!pass", true},
		{"too long", "Aa1!" + strings.Repeat("x", 130), true},
		{"no uppercase", "str0ng&secure!pass", true},
		{"no lowercase", "STR0NG&SECURE!PASS", true},
		{"no digit", "Strong&Secure!pass", true},
		{"no special", "Str0ngSecurePass1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "moderator_one", false},
		{"valid with hyphen", "mod-one", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"invalid characters", "mod one!", true},
		{"leading underscore", "_mod", true},
		{"trailing hyphen", "mod-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("mod@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("a@"+strings.Repeat("b", 250)+".com"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""), "phone is optional")
	assert.NoError(t, ValidatePhone("+4915112345678"))
	assert.NoError(t, ValidatePhone("5551234567"))
	assert.Error(t, ValidatePhone("123"))
	assert.Error(t, ValidatePhone("+1 555 123 4567"))
	assert.Error(t, ValidatePhone("not-a-number"))
}

func TestValidateCodename(t *testing.T) {
	assert.NoError(t, ValidateCodename("customers.block"))
	assert.NoError(t, ValidateCodename("rooms.manage"))
	assert.NoError(t, ValidateCodename("a_b.c2"))
	assert.Error(t, ValidateCodename("ab"))
	assert.Error(t, ValidateCodename("1starts.with.digit"))
	assert.Error(t, ValidateCodename("Has.Uppercase"))
	assert.Error(t, ValidateCodename("has space"))
	assert.Error(t, ValidateCodename(strings.Repeat("a", 101)))
}
