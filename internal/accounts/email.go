package accounts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail is the only form in which emails are stored or looked up,
// which is what makes the unique index case-insensitive.
func NormalizeEmail(email string) string {
	e := strings.TrimSpace(email)
	e = norm.NFC.String(e)
	// A Caser is stateful; one per call keeps this safe across goroutines.
	return cases.Lower(language.Und).String(e)
}
