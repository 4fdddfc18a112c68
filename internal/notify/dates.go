package notify

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// supportedLocales lists the locales with translated copy. The first entry is
// the fallback for anything the matcher cannot place.
var supportedLocales = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// MatchLocale maps a BCP 47 string (e.g. "pt-BR", "en", "en-GB") onto the
// closest supported locale, defaulting to Brazilian Portuguese.
func MatchLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return supportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

var monthNames = map[language.Tag][12]string{
	language.BrazilianPortuguese: {
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	},
	language.AmericanEnglish: {
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	},
}

// FormatLongDate renders t (in UTC) as the locale's long date with the month
// name capitalised: "2 de Junho de 2025" for pt-BR, "June 2, 2025" for en-US.
func FormatLongDate(t time.Time, locale language.Tag) string {
	t = t.UTC()
	names, ok := monthNames[locale]
	if !ok {
		locale = supportedLocales[0]
		names = monthNames[locale]
	}

	// A Caser keeps state between calls and is not safe for concurrent use,
	// so each call builds its own.
	month := cases.Title(locale).String(names[t.Month()-1])

	if locale == language.AmericanEnglish {
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), month, t.Year())
}
