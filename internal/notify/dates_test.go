package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"pt-BR", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"en", language.AmericanEnglish},
		{"en-US", language.AmericanEnglish},
		{"fr-FR", language.BrazilianPortuguese}, // unsupported falls back
		{"not a locale!", language.BrazilianPortuguese},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.MatchLocale(tt.in))
		})
	}
}

func TestFormatLongDate_PortugueseCapitalizesMonth(t *testing.T) {
	d := time.Date(2025, time.March, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "2 de Março de 2025", notify.FormatLongDate(d, language.BrazilianPortuguese))
}

func TestFormatLongDate_English(t *testing.T) {
	d := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "June 21, 2025", notify.FormatLongDate(d, language.AmericanEnglish))
}

// Dates are rendered in UTC regardless of the zone attached to the time value.
func TestFormatLongDate_NormalisesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC-3", -3*60*60)
	d := time.Date(2025, time.December, 31, 22, 0, 0, 0, zone) // 2026-01-01 01:00 UTC

	assert.Equal(t, "1 de Janeiro de 2026", notify.FormatLongDate(d, language.BrazilianPortuguese))
}

func TestFormatLongDate_UnknownLocaleUsesFallback(t *testing.T) {
	d := time.Date(2025, time.May, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "9 de Maio de 2025", notify.FormatLongDate(d, language.French))
}
