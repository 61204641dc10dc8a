package auth

import (
	"strings"
	"testing"
	"unicode"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Ab1@abcd", true},
		{"valid long", "Str0ng!Passw0rd", true},
		{"too short", "Ab1@abc", false},
		{"no upper", "ab1@abcd", false},
		{"no digit", "Abc@abcd", false},
		{"no special", "abcdefgh", false},
		{"wrong special", "Ab1%abcd", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidatePassword(tc.password); got != tc.want {
				t.Fatalf("ValidatePassword(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestGenerateTempPassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := GenerateTempPassword(10)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(pw) != 10 {
			t.Fatalf("expected length 10, got %d (%q)", len(pw), pw)
		}
		var hasUpper, hasDigit, hasSpecial bool
		for _, r := range pw {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsDigit(r):
				hasDigit = true
			case strings.ContainsRune(specialChars, r):
				hasSpecial = true
			}
		}
		if !hasUpper || !hasDigit || !hasSpecial {
			t.Fatalf("missing required character class in %q", pw)
		}
		if !ValidatePassword(pw) {
			t.Fatalf("generated password %q fails strength validation", pw)
		}
	}
}

func TestGenerateTempPassword_TooShort(t *testing.T) {
	if _, err := GenerateTempPassword(2); err == nil {
		t.Fatalf("expected error for length 2")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret1@")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Secret1@" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !VerifyPassword("Secret1@", hash) {
		t.Fatalf("expected verification to succeed")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected verification to fail for wrong password")
	}
}
