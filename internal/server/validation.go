package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxUserIDLength   = 64
	maxUsernameLength = 32
	maxWordLength     = 60
	maxHintLength     = 120
	maxClueLength     = 60
)

func validateUserID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errors.New("user_id is required")
	}
	if len(trimmed) > maxUserIDLength {
		return "", fmt.Errorf("user_id must be %d characters or fewer", maxUserIDLength)
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return "", errors.New("user_id contains unsupported characters")
	}
	return trimmed, nil
}

func validateUsername(name string) (string, error) {
	return validateText("username", name, maxUsernameLength)
}

func validateWord(label, word string) (string, error) {
	return validateText(label, word, maxWordLength)
}

func validateHint(hint string) (string, error) {
	return validateText("bonus_hint", hint, maxHintLength)
}

func validateClue(clue string) (string, error) {
	return validateText("clue_word", clue, maxClueLength)
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/':
			continue
		default:
			return false
		}
	}
	return true
}
