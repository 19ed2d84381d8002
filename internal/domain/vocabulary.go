package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxWordLength bounds the front text of a vocabulary item in characters.
const MaxWordLength = 200

// VocabularyItem is one word proposed by lesson generation.
type VocabularyItem struct {
	Word       string `json:"word"`
	Type       string `json:"type"`
	Meaning    string `json:"meaning"`
	Definition string `json:"definition,omitempty"`
}

// Validate checks that the item carries a word, a word class and a meaning.
func (v VocabularyItem) Validate() error {
	word := strings.TrimSpace(v.Word)
	if word == "" {
		return ErrWordEmpty
	}
	if utf8.RuneCountInString(word) > MaxWordLength {
		return ErrWordTooLong
	}
	if strings.TrimSpace(v.Type) == "" {
		return ErrWordTypeEmpty
	}
	if strings.TrimSpace(v.Meaning) == "" {
		return ErrMeaningEmpty
	}
	return nil
}
