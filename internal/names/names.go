// Package names converts entity names between the casings Angular projects
// use for file names, class names and properties.
package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	decamelizeRe = regexp.MustCompile(`([a-z\d])([A-Z])`)
	separatorRe  = regexp.MustCompile(`[ _]`)
	camelizeRe   = regexp.MustCompile(`(?:[-_.\s])+(.)?`)
	underscoreRe = regexp.MustCompile(`([a-z\d])([A-Z]+)`)
	dashSpaceRe  = regexp.MustCompile(`-|\s+`)
)

// Decamelize converts "innerHTML" to "inner_html".
func Decamelize(s string) string {
	return strings.ToLower(decamelizeRe.ReplaceAllString(s, "${1}_${2}"))
}

// Dasherize converts "UserProfile" or "user_profile" to "user-profile".
func Dasherize(s string) string {
	return separatorRe.ReplaceAllString(Decamelize(s), "-")
}

// Camelize converts "user-profile" or "User profile" to "userProfile".
func Camelize(s string) string {
	out := camelizeRe.ReplaceAllStringFunc(s, func(m string) string {
		r, _ := utf8.DecodeLastRuneInString(m)
		if strings.ContainsRune("-_. \t\n", r) {
			return ""
		}
		return string(unicode.ToUpper(r))
	})
	return lowerFirst(out)
}

// Classify converts "user-profile" to "UserProfile". Dotted names keep
// their dots: "admin.user-role" -> "Admin.UserRole".
func Classify(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = Capitalize(Camelize(p))
	}
	return strings.Join(parts, ".")
}

// Underscore converts "UserProfile" to "user_profile".
func Underscore(s string) string {
	s = underscoreRe.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(dashSpaceRe.ReplaceAllString(s, "_"))
}

// Capitalize upper-cases the first letter.
func Capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	// Casers are stateful, so one is built per call.
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
