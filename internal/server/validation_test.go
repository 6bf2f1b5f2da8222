package server

import "testing"

func TestValidateUserID(t *testing.T) {
	if _, err := validateUserID("  user-1_a  "); err != nil {
		t.Fatalf("expected valid id, got %v", err)
	}
	for _, bad := range []string{"", "has space", "émoji", "semi;colon"} {
		if _, err := validateUserID(bad); err == nil {
			t.Fatalf("expected rejection for %q", bad)
		}
	}
}

func TestValidateTextCollapsesWhitespace(t *testing.T) {
	word, err := validateWord("secret_word", "  ice   cream  ")
	if err != nil {
		t.Fatalf("validate word: %v", err)
	}
	if word != "ice cream" {
		t.Fatalf("expected collapsed whitespace, got %q", word)
	}
}

func TestNormalizeWord(t *testing.T) {
	if normalizeWord("  Apple ") != "apple" {
		t.Fatalf("trim and case-fold failed")
	}
}

func TestNewInviteCodeAlphabet(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for i := 0; i < 32; i++ {
		code := newInviteCode()
		if len(code) != 6 {
			t.Fatalf("unexpected code length: %q", code)
		}
		for _, r := range code {
			if !containsRune(alphabet, r) {
				t.Fatalf("code %q uses a character outside the alphabet", code)
			}
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, candidate := range s {
		if candidate == r {
			return true
		}
	}
	return false
}
