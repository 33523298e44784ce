package hrdocs

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// buddhistEraOffset converts a Gregorian year to the Thai Buddhist calendar.
const buddhistEraOffset = 543

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var amountPrinter = message.NewPrinter(language.Thai)

// FormatThaiDate renders t as "15 มกราคม 2567".
func FormatThaiDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+buddhistEraOffset)
}

// FormatThaiShortDate renders t as "15/01/2567".
func FormatThaiShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year()+buddhistEraOffset)
}

// ThaiDate formats a loosely typed date value in the long Thai form.
// Unparseable values are returned as text unchanged.
func ThaiDate(v any) string {
	if t, ok := parseTime(v); ok {
		return FormatThaiDate(t)
	}
	return FormatValue(v)
}

// FormatAmount renders v with digit grouping and two decimals.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}
