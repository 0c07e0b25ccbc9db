// Package pluralize forms plural nouns with simple suffix rules for English
// and Spanish. The rules are heuristics: irregular nouns come out wrong in
// both languages and callers have to live with approximate results.
package pluralize

import "strings"

// LangSpanish selects the Spanish rules; every other language code gets English.
const LangSpanish = "es"

const vowels = "aeiou"

// En pluralizes an English noun: consonant+y -> ies; s, x, z, ch, sh -> +es;
// otherwise +s.
func En(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "y") && !precededByVowel(lower) {
		return word[:len(word)-1] + "ies"
	}
	for _, end := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(lower, end) {
			return word + "es"
		}
	}
	return word + "s"
}

// Es pluralizes a Spanish noun: vowel -> +s; z -> ces; otherwise +es.
func Es(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	last := lower[len(lower)-1:]
	switch {
	case strings.Contains(vowels, last):
		return word + "s"
	case last == "z":
		return word[:len(word)-1] + "ces"
	default:
		return word + "es"
	}
}

// For returns the pluralizer for lang.
func For(lang string) func(string) string {
	if strings.EqualFold(lang, LangSpanish) {
		return Es
	}
	return En
}

// Pluralize applies the rules for lang to word.
func Pluralize(word, lang string) string {
	return For(lang)(word)
}

// precededByVowel reports whether the second-to-last byte of a word ending
// in "y" is a vowel. A bare "y" counts as not preceded by one.
func precededByVowel(lower string) bool {
	if len(lower) < 2 {
		return false
	}
	return strings.ContainsRune(vowels, rune(lower[len(lower)-2]))
}
