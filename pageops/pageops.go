// Package pageops places existing PDF pages into generated reports. It
// imports pages as form templates, draws letterheads and watermarks behind
// report content, and binds finished reports into a single file.
package pageops

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/phpdave11/gofpdi"
)

// ErrNotPDF is returned for input that does not start with a PDF header.
var ErrNotPDF = errors.New("pageops: input is not a PDF")

// A4 portrait in points, used when a source page carries no MediaBox.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

func checkHeader(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return ErrNotPDF
	}
	return nil
}

// source is one PDF opened for page import. Sources bound into the same
// document share an importer so their template names do not collide.
type source struct {
	imp *gofpdi.Importer
	rs  io.ReadSeeker
}

// open parses data with a new importer.
func open(data []byte) (*source, error) {
	return openWith(gofpdi.NewImporter(), data)
}

// openWith parses data and makes it the current source of imp. The importer
// panics on malformed input; the panic is returned as an error.
func openWith(imp *gofpdi.Importer, data []byte) (src *source, err error) {
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("pageops: parsing input: %v", r)
		}
	}()
	src = &source{imp: imp, rs: bytes.NewReader(data)}
	src.imp.SetSourceStream(&src.rs)
	return src, nil
}

// numPages returns the page count of the source.
func (s *source) numPages() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pageops: counting pages: %v", r)
		}
	}()
	return s.imp.GetNumPages(), nil
}

// importPage copies page pageNum of the source into pdf as a template and
// returns its id together with the page size in points.
func (s *source) importPage(pdf *fpdf.Fpdf, pageNum int) (tplID int, w, h float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pageops: importing page %d: %v", pageNum, r)
		}
	}()
	tplID = s.imp.ImportPage(pageNum, "/MediaBox")
	pdf.ImportTemplates(s.imp.PutFormXobjectsUnordered())
	pdf.ImportObjects(s.imp.GetImportedObjectsUnordered())
	pdf.ImportObjPos(s.imp.GetImportedObjHashPos())

	w, h = a4Width, a4Height
	if dims, ok := s.imp.GetPageSizes()[pageNum]; ok {
		if mb, ok := dims["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
			w, h = mb["w"], mb["h"]
		}
	}
	return tplID, w, h, nil
}

// place draws a previously imported template at x, y with size w x h in
// the units of pdf.
func (s *source) place(pdf *fpdf.Fpdf, tplID int, x, y, w, h float64) {
	name, sx, sy, tx, ty := s.imp.UseTemplate(tplID, x, y, w, h)
	pdf.UseImportedTemplate(name, sx, sy, tx, ty)
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	src, err := open(data)
	if err != nil {
		return 0, err
	}
	return src.numPages()
}
