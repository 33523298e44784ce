// Package pdftest inspects the content streams of uncompressed PDFs in
// tests. fpdf writes cell text as "(text)Tj" and free text as "(text) Tj";
// the helpers match both.
package pdftest

import (
	"regexp"
	"strings"
)

var escaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)

func showOp(text string) *regexp.Regexp {
	return regexp.MustCompile(`\(` + regexp.QuoteMeta(escaper.Replace(text)) + `\)\s*Tj`)
}

// Shows reports whether body draws text as one string operand.
func Shows(body, text string) bool {
	return showOp(text).MatchString(body)
}

// Count is the number of times body draws text.
func Count(body, text string) int {
	return len(showOp(text).FindAllStringIndex(body, -1))
}

// Index is the offset of the first drawing of text, or -1.
func Index(body, text string) int {
	loc := showOp(text).FindStringIndex(body)
	if loc == nil {
		return -1
	}
	return loc[0]
}
