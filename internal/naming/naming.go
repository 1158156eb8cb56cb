// Package naming turns table and index names into model and relationship names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// Studly converts a table name to a class-style name: "role_user" -> "RoleUser".
// Letters after the first one of each word keep their case.
func Studly(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// LowerCamel converts a table or index name to a relationship name: "role_user" -> "roleUser"
func LowerCamel(s string) string {
	return LowerFirst(Studly(s))
}

// LowerFirst lower-cases the first letter only
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Singular returns the singular form of a name
func Singular(s string) string {
	return inflect.Singularize(s)
}

// Plural returns the plural form of a name
func Plural(s string) string {
	return inflect.Pluralize(s)
}
