package pageops

import (
	"errors"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/phpdave11/gofpdi"
)

// Merge binds the given PDFs into one document written to w, all pages of
// the first followed by all pages of the second, and so on. It returns the
// number of pages written.
func Merge(w io.Writer, docs ...[]byte) (int, error) {
	if len(docs) == 0 {
		return 0, errors.New("pageops: no input documents provided")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	imp := gofpdi.NewImporter()
	pages := 0
	for i, data := range docs {
		n, err := appendDoc(pdf, imp, data)
		if err != nil {
			return 0, fmt.Errorf("pageops: merging document %d: %w", i+1, err)
		}
		pages += n
	}
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("pageops: writing merged document: %w", err)
	}
	return pages, nil
}

// appendDoc imports all pages of data into pdf.
func appendDoc(pdf *fpdf.Fpdf, imp *gofpdi.Importer, data []byte) (int, error) {
	src, err := openWith(imp, data)
	if err != nil {
		return 0, err
	}
	n, err := src.numPages()
	if err != nil {
		return 0, err
	}
	for i := 1; i <= n; i++ {
		tplID, w, h, err := src.importPage(pdf, i)
		if err != nil {
			return 0, err
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		src.place(pdf, tplID, 0, 0, w, h)
	}
	return n, pdf.Error()
}
