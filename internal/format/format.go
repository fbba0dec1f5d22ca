// Package format renders raw values (minor-unit amounts, timestamps, rates,
// enumeration codes) as French display strings.
package format

import (
	"strconv"
	"strings"
	"time"
)

const (
	thousandsSep = "\u202f" // narrow no-break space
	currencySep  = "\u00a0" // no-break space before the symbol
	placeholder  = "-"
	notAvailable = "N/A"
)

// Currency renders an amount in euro cents, e.g. 123456 -> "1 234,56 €".
func Currency(minor int64) string {
	sign := ""
	// Negate in uint64 so math.MinInt64 does not overflow.
	abs := uint64(minor)
	if minor < 0 {
		sign = "-"
		abs = uint64(-(minor + 1)) + 1
	}
	euros, cents := abs/100, abs%100

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(groupThousands(strconv.FormatUint(euros, 10)))
	b.WriteByte(',')
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatUint(cents, 10))
	b.WriteString(currencySep + "€")
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteString(thousandsSep)
		}
		out.WriteRune(c)
	}
	return out.String()
}

// Date renders t as dd/mm/yyyy, or "-" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format("02/01/2006")
}

// DateTime renders t as dd/mm/yyyy hh:mm, or "-" for the zero time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format("02/01/2006 15:04")
}

// Percent renders a rate with one decimal and a French decimal comma.
// A nil rate (zero denominator) renders as "N/A".
func Percent(rate *float64) string {
	if rate == nil {
		return notAvailable
	}
	s := strconv.FormatFloat(*rate, 'f', 1, 64)
	return strings.Replace(s, ".", ",", 1) + currencySep + "%"
}

// Hours renders an optional duration in hours, e.g. "3,5 h".
func Hours(h *float64) string {
	if h == nil {
		return notAvailable
	}
	s := strconv.FormatFloat(*h, 'f', 1, 64)
	return strings.Replace(s, ".", ",", 1) + currencySep + "h"
}
