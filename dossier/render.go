package dossier

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/photo"
)

// Layout sizes in millimeters; converted to document units when drawn.
const (
	defaultPhotoW = 30.0
	defaultPhotoH = 40.0
	defaultDPI    = 150.0
	lineHeightMM  = 6.0
	checkboxMM    = 3.5
	barcodeMM     = 8.0
	bodyPt        = 10.0
	titlePt       = 16.0
)

// NoRecordsText is printed under the title when there are no rows.
const NoRecordsText = "No records match the selected filters."

// Renderer draws one page per row.
type Renderer struct {
	title  string
	layout Layout
	photos *photo.Normalizer
	log    *zap.Logger
	photoW float64
	photoH float64
	dpi    float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPhotos sets the normalizer used to resolve photo refs.
func WithPhotos(n *photo.Normalizer) Option {
	return func(r *Renderer) {
		if n != nil {
			r.photos = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithPhotoSize sets the photo box in millimeters.
func WithPhotoSize(w, h float64) Option {
	return func(r *Renderer) {
		if w > 0 && h > 0 {
			r.photoW, r.photoH = w, h
		}
	}
}

// WithDPI sets the pixel density photos are normalized to.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// New returns a renderer printing title at the top of each page.
func New(title string, layout Layout, opts ...Option) *Renderer {
	r := &Renderer{
		title:  title,
		layout: layout,
		log:    zap.NewNop(),
		photoW: defaultPhotoW,
		photoH: defaultPhotoH,
		dpi:    defaultDPI,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.photos == nil {
		r.photos = photo.NewNormalizer(nil, photo.WithLogger(r.log))
	}
	return r
}

// Render draws rows onto doc, one page each and in order, then stamps page
// numbers at the top right. No rows yield a single page with the title and
// NoRecordsText. Photos are resolved up front; a photo that
// cannot be resolved leaves its box empty.
func (r *Renderer) Render(ctx context.Context, doc *hrdocs.Document, rows []hrdocs.Row, _ hrdocs.Filters) error {
	photos := r.resolvePhotos(ctx, rows)

	auto, margin := doc.GetAutoPageBreak()
	doc.SetAutoPageBreak(false, margin)
	defer doc.SetAutoPageBreak(auto, margin)

	if len(rows) == 0 {
		// fpdf closes an empty document with a blank page; draw a titled one.
		doc.AddPage()
		w := r.newWriter(doc)
		w.heading()
		doc.SetBodyFont("", bodyPt)
		doc.SetXY(w.left, w.cur.y)
		doc.CellFormat(w.width, w.lh, doc.Printable(NoRecordsText), "", 0, "C", false, 0, "")
	}
	for i, row := range rows {
		doc.AddPage()
		var img *photo.Image
		if ref, ok := photo.FromRow(row, r.layout.PhotoKey); ok {
			img, _ = photos.Get(ref)
		}
		w := r.newWriter(doc)
		w.record(row, img)
		if doc.Err() {
			return fmt.Errorf("%w: record %d: %v", hrdocs.ErrRender, i+1, doc.Error())
		}
	}
	doc.StampPageNumbers(hrdocs.TopRight)
	return nil
}

func (r *Renderer) resolvePhotos(ctx context.Context, rows []hrdocs.Row) *photo.Set {
	if r.layout.PhotoKey == "" {
		return nil
	}
	refs := make([]photo.Ref, 0, len(rows))
	for _, row := range rows {
		if ref, ok := photo.FromRow(row, r.layout.PhotoKey); ok {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return nil
	}
	pw := int(math.Round(r.photoW / 25.4 * r.dpi))
	ph := int(math.Round(r.photoH / 25.4 * r.dpi))
	return r.photos.NormalizeAll(ctx, refs, pw, ph)
}

// Wrap splits text to width using the current font. It returns the
// printable lines and the vertical advance lineHeight × max(1, lines).
func Wrap(doc *hrdocs.Document, text string, width, lineHeight float64) ([]string, float64) {
	var lines []string
	if text != "" {
		lines = doc.SplitText(doc.Printable(text), width)
	}
	return lines, lineHeight * float64(max(1, len(lines)))
}

// cursor is the drawing position on the current page. y only grows.
type cursor struct {
	x, y float64
}

type writer struct {
	r     *Renderer
	doc   *hrdocs.Document
	u     float64 // document units per millimeter
	left  float64
	right float64 // x of the right margin
	width float64
	lh    float64
	cur   cursor
}

func (r *Renderer) newWriter(doc *hrdocs.Document) *writer {
	pageW, _ := doc.GetPageSize()
	l, t, rm, _ := doc.GetMargins()
	u := 72.0 / 25.4 / doc.GetConversionRatio()
	return &writer{
		r:     r,
		doc:   doc,
		u:     u,
		left:  l,
		right: pageW - rm,
		width: pageW - l - rm,
		lh:    lineHeightMM * u,
		cur:   cursor{x: l, y: t},
	}
}

func (w *writer) mm(v float64) float64 {
	return v * w.u
}

func (w *writer) heading() {
	w.doc.SetBodyFont("B", titlePt)
	w.doc.SetXY(w.left, w.cur.y)
	w.doc.CellFormat(w.width, w.mm(8), w.doc.Printable(w.r.title), "", 0, "C", false, 0, "")
	w.cur.y += w.mm(12)
}

func (w *writer) record(row hrdocs.Row, img *photo.Image) {
	doc := w.doc
	doc.SetDrawColor(0, 0, 0)
	doc.SetTextColor(0, 0, 0)
	doc.SetLineWidth(w.mm(0.3))

	w.heading()

	pw, ph := w.mm(w.r.photoW), w.mm(w.r.photoH)
	px, py := w.right-pw, w.cur.y
	w.photo(px, py, pw, ph, img)
	bottom := py + ph
	if code := row.Text(w.r.layout.BarcodeKey); w.r.layout.BarcodeKey != "" && code != "" {
		if w.barcode(code, px, bottom+w.mm(2), pw, w.mm(barcodeMM)) {
			bottom += w.mm(2 + barcodeMM)
		}
	}

	w.grid(row, w.width-pw-w.mm(4))
	w.cur.y = math.Max(w.cur.y, bottom) + w.mm(3)

	w.separator()
	labelW := w.mm(38)
	for _, f := range w.r.layout.Details {
		w.labelValue(labelW, f.Label, f.text(row))
	}

	w.cur.y += w.mm(1)
	w.separator()
	for _, f := range w.r.layout.Employment {
		w.labelValue(labelW, f.Label, f.text(row))
	}
	for _, g := range w.r.layout.Checks {
		w.checkGroup(labelW, g, row.Text(g.Key))
	}
}

// photo draws the bordered box and, when available, the image inside it.
func (w *writer) photo(x, y, bw, bh float64, img *photo.Image) {
	if img != nil {
		opts := fpdf.ImageOptions{ImageType: img.Format}
		name := "photo:" + img.Key
		w.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		w.doc.ImageOptions(name, x, y, bw, bh, false, opts, 0, "")
	}
	w.doc.Rect(x, y, bw, bh, "D")
}

// barcode draws code as Code 128 in the given box. Codes the symbology
// cannot carry are logged and skipped.
func (w *writer) barcode(code string, x, y, bw, bh float64) bool {
	bc, err := code128.Encode(code)
	if err != nil {
		w.r.log.Warn("barcode skipped", zap.String("code", code), zap.Error(err))
		return false
	}
	scaled, err := barcode.Scale(bc, bc.Bounds().Dx()*3, 60)
	if err != nil {
		w.r.log.Warn("barcode skipped", zap.String("code", code), zap.Error(err))
		return false
	}
	// 8-bit gray; the PDF writer rejects 16-bit PNGs
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		w.r.log.Warn("barcode skipped", zap.String("code", code), zap.Error(err))
		return false
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	name := "barcode:" + code
	w.doc.RegisterImageOptionsReader(name, opts, &buf)
	w.doc.ImageOptions(name, x, y, bw, bh, false, opts, 0, "")
	return true
}

// grid lays identity fields out three per line in the given width. Values
// wrap within their cell; each grid line is as tall as its tallest value.
func (w *writer) grid(row hrdocs.Row, width float64) {
	fields := w.r.layout.Identity
	colW := width / 3
	labelW := colW * 0.42
	valueW := colW - labelW
	for start := 0; start < len(fields); start += 3 {
		advance := w.lh
		for col, f := range fields[start:min(start+3, len(fields))] {
			x := w.left + float64(col)*colW

			w.doc.SetBodyFont("B", bodyPt)
			w.doc.SetXY(x, w.cur.y)
			w.doc.CellFormat(labelW, w.lh, w.doc.Printable(f.Label), "", 0, "L", false, 0, "")

			w.doc.SetBodyFont("", bodyPt)
			lines, dy := Wrap(w.doc, f.text(row), valueW, w.lh)
			for i, line := range lines {
				w.doc.SetXY(x+labelW, w.cur.y+float64(i)*w.lh)
				w.doc.CellFormat(valueW, w.lh, line, "", 0, "L", false, 0, "")
			}
			advance = max(advance, dy)
		}
		w.cur.y += advance
	}
}

func (w *writer) separator() {
	w.doc.SetDashPattern([]float64{w.mm(1.5), w.mm(1)}, 0)
	w.doc.Line(w.left, w.cur.y, w.right, w.cur.y)
	w.doc.SetDashPattern([]float64{}, 0)
	w.cur.y += w.mm(3)
}

// labelValue prints a bold label and its value wrapped to the rest of the
// line, then moves the cursor below the last wrapped line.
func (w *writer) labelValue(labelW float64, label, value string) {
	w.doc.SetBodyFont("B", bodyPt)
	w.doc.SetXY(w.cur.x, w.cur.y)
	w.doc.CellFormat(labelW, w.lh, w.doc.Printable(label), "", 0, "L", false, 0, "")

	w.doc.SetBodyFont("", bodyPt)
	lines, dy := Wrap(w.doc, value, w.width-labelW, w.lh)
	for i, line := range lines {
		w.doc.SetXY(w.left+labelW, w.cur.y+float64(i)*w.lh)
		w.doc.CellFormat(w.width-labelW, w.lh, line, "", 0, "L", false, 0, "")
	}
	w.cur.y += dy
}

// checkGroup prints a label followed by its checkboxes side by side.
func (w *writer) checkGroup(labelW float64, g CheckGroup, text string) {
	if len(g.Boxes) == 0 {
		return
	}
	w.doc.SetBodyFont("B", bodyPt)
	w.doc.SetXY(w.left, w.cur.y)
	w.doc.CellFormat(labelW, w.lh, w.doc.Printable(g.Label), "", 0, "L", false, 0, "")

	w.doc.SetBodyFont("", bodyPt)
	slotW := (w.width - labelW) / float64(len(g.Boxes))
	size := w.mm(checkboxMM)
	gap := w.mm(1.5)
	lines := 1
	for i, b := range g.Boxes {
		x := w.left + labelW + float64(i)*slotW
		w.checkbox(x, w.cur.y+(w.lh-size)/2, size, b.Checked(text))

		wrapped, _ := Wrap(w.doc, b.Label, slotW-size-2*gap, w.lh)
		for j, line := range wrapped {
			w.doc.SetXY(x+size+gap, w.cur.y+float64(j)*w.lh)
			w.doc.CellFormat(slotW-size-gap, w.lh, line, "", 0, "L", false, 0, "")
		}
		lines = max(lines, len(wrapped))
	}
	w.cur.y += w.lh * float64(lines)
}

// checkbox strokes a square, crossed from corner to corner when checked.
func (w *writer) checkbox(x, y, size float64, checked bool) {
	w.doc.Rect(x, y, size, size, "D")
	if !checked {
		return
	}
	in := size * 0.2
	w.doc.Line(x+in, y+in, x+size-in, y+size-in)
	w.doc.Line(x+size-in, y+in, x+in, y+size-in)
}
