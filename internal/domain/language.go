package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Proficiency is a CEFR level label attached to a deck.
type Proficiency string

// Supported proficiency levels.
const (
	ProficiencyA1 Proficiency = "A1"
	ProficiencyA2 Proficiency = "A2"
	ProficiencyB1 Proficiency = "B1"
	ProficiencyB2 Proficiency = "B2"
	ProficiencyC1 Proficiency = "C1"
	ProficiencyC2 Proficiency = "C2"
)

// Proficiencies lists every valid level in ascending order.
var Proficiencies = []Proficiency{
	ProficiencyA1, ProficiencyA2, ProficiencyB1, ProficiencyB2, ProficiencyC1, ProficiencyC2,
}

// ParseProficiency accepts a level label in any letter case.
func ParseProficiency(s string) (Proficiency, error) {
	p := Proficiency(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidProficiency
	}
	return p, nil
}

// IsValid reports whether p is one of the six CEFR levels.
func (p Proficiency) IsValid() bool {
	switch p {
	case ProficiencyA1, ProficiencyA2, ProficiencyB1, ProficiencyB2, ProficiencyC1, ProficiencyC2:
		return true
	}
	return false
}

// IsBeginner reports whether the level gets native-language glosses on card backs.
func (p Proficiency) IsBeginner() bool {
	return p == ProficiencyA1 || p == ProficiencyA2
}

// LanguageCustom is the code used for user-defined languages.
const LanguageCustom = "custom"

// languageAliases covers short names that differ from the CLDR display name.
var languageAliases = map[string]string{
	"english":   "en",
	"german":    "de",
	"chinese":   "zh",
	"norwegian": "no",
	"custom":    LanguageCustom,
}

// codeAliases folds base codes that name the same written language.
var codeAliases = map[string]string{
	"nb": "no",
}

// languageNames maps lower-cased English display names to base codes.
var languageNames = buildLanguageNames()

func buildLanguageNames() map[string]string {
	namer := display.English.Languages()
	names := make(map[string]string)
	add := func(base language.Base) {
		code := canonicalCode(base.String())
		name := strings.ToLower(namer.Name(language.Make(base.String())))
		if name == "" {
			return
		}
		if _, taken := names[name]; !taken {
			names[name] = code
		}
	}

	// every ISO 639-1 code first, so two-letter codes win over three-letter ones
	for a := 'a'; a <= 'z'; a++ {
		for b := 'a'; b <= 'z'; b++ {
			if base, err := language.ParseBase(string([]rune{a, b})); err == nil {
				add(base)
			}
		}
	}
	for _, tag := range display.Supported.Tags() {
		if base, conf := tag.Base(); conf != language.No {
			add(base)
		}
	}
	return names
}

func canonicalCode(code string) string {
	if alias, ok := codeAliases[code]; ok {
		return alias
	}
	return code
}

// NormalizeLanguage maps a language name or tag to the code stored on decks and
// flashcards. English language names map to their ISO 639 code ("english" -> "en",
// "Vietnamese" -> "vi"), valid BCP 47 tags map to their base language
// ("de-AT" -> "de"), and anything else is lower-cased and kept as-is.
func NormalizeLanguage(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if code, ok := languageAliases[s]; ok {
		return code
	}
	if code, ok := languageNames[s]; ok {
		return code
	}
	if tag, err := language.Parse(s); err == nil {
		if base, conf := tag.Base(); conf == language.Exact {
			return canonicalCode(base.String())
		}
	}
	return s
}

// LanguageDisplayName returns the English name for a stored language code, or
// the code itself when no name is known.
func LanguageDisplayName(code string) string {
	if code == "" || code == LanguageCustom {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

// DeckDescription builds the description stored on decks created by ingestion.
func DeckDescription(languageCode string, p Proficiency) string {
	return fmt.Sprintf("%s - %s", LanguageDisplayName(languageCode), p)
}
