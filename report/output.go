package report

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

// Mode says how the caller presents the document.
type Mode string

const (
	ModePreview  Mode = "preview"
	ModeDownload Mode = "download"
)

// ParseMode accepts "preview" and "download"; empty means download.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDownload:
		return ModeDownload, nil
	case ModePreview:
		return ModePreview, nil
	}
	return "", fmt.Errorf("%w: %q", hrdocs.ErrInvalidMode, s)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePreview || m == ModeDownload
}

// ContentType of every assembled document.
const ContentType = "application/pdf"

// Output is a finished document.
type Output struct {
	Title    string
	Filename string
	Mode     Mode
	Data     []byte
	Pages    int
}

// Disposition is the Content-Disposition header value for the output:
// inline for previews, attachment for downloads.
func (o *Output) Disposition() string {
	kind := "attachment"
	if o.Mode == ModePreview {
		kind = "inline"
	}
	return mime.FormatMediaType(kind, map[string]string{"filename": o.Filename})
}

// Filename is the suggested file name for a report title.
func Filename(title string) string {
	return title + ".pdf"
}

// Assemble closes doc and returns its bytes.
func Assemble(doc *hrdocs.Document, title string, mode Mode) (*Output, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, hrdocs.NewReportError("assemble", title, err)
	}
	return &Output{
		Title:    title,
		Filename: Filename(title),
		Mode:     mode,
		Data:     buf.Bytes(),
		Pages:    doc.PageCount(),
	}, nil
}
