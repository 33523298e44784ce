package pageops

import (
	"fmt"
	"os"

	hrdocs "github.com/lvillar/hrdocs"
)

// Letterhead draws one page of a stationery PDF behind every report page.
type Letterhead struct {
	data []byte
	page int
}

// NewLetterhead uses page 1 of data as stationery.
func NewLetterhead(data []byte) (*Letterhead, error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	return &Letterhead{data: data, page: 1}, nil
}

// LoadLetterhead reads the stationery from a file.
func LoadLetterhead(path string) (*Letterhead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pageops: reading letterhead: %w", err)
	}
	return NewLetterhead(data)
}

// WithPage selects the stationery page (1-based).
func (l *Letterhead) WithPage(n int) *Letterhead {
	if n > 0 {
		l.page = n
	}
	return l
}

// Decorate imports the stationery into doc and stretches it over each new
// page before the report draws.
func (l *Letterhead) Decorate(doc *hrdocs.Document) error {
	src, err := open(l.data)
	if err != nil {
		return err
	}
	n, err := src.numPages()
	if err != nil {
		return err
	}
	if l.page > n {
		return fmt.Errorf("pageops: letterhead page %d out of range, stationery has %d", l.page, n)
	}
	tplID, _, _, err := src.importPage(doc.Fpdf, l.page)
	if err != nil {
		return err
	}
	doc.OnNewPage(func() {
		w, h := doc.GetPageSize()
		src.place(doc.Fpdf, tplID, 0, 0, w, h)
	})
	return nil
}
