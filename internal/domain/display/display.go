// Package display formats stored values for people: prices with the studio
// locale's grouping, short dates and Turkish phone numbers.
package display

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the language tag used for number grouping.
var Locale = language.Turkish

// FormatPrice renders a whole-unit amount with locale thousands separators
// (1200 -> "1.200"). Fractions are rounded half-up to whole units.
func FormatPrice(amount decimal.Decimal) string {
	p := message.NewPrinter(Locale)
	return p.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatDateDDMMYY renders t as dd/mm/yy in UTC. Zero times render as "".
func FormatDateDDMMYY(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02/01/06")
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone groups a Turkish number for display.
// 10 digits become "0XXX XXX XX XX", 11 digits "XXXX XXX XX XX".
// Anything else is returned unchanged.
func FormatPhone(phone string) string {
	d := Digits(phone)
	switch len(d) {
	case 10:
		return "0" + d[0:3] + " " + d[3:6] + " " + d[6:8] + " " + d[8:10]
	case 11:
		return d[0:4] + " " + d[4:7] + " " + d[7:9] + " " + d[9:11]
	default:
		return phone
	}
}
