package hrdocs

import (
	"os"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Page orientations, units and sizes understood by Geometry.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"

	UnitPoint      = "pt"
	UnitMillimeter = "mm"
	UnitCentimeter = "cm"
	UnitInch       = "inch"

	PageSizeA4     = "A4"
	PageSizeA3     = "A3"
	PageSizeLetter = "Letter"
)

// FallbackFamily is the core font used when no UTF-8 font is configured or
// the configured files cannot be read.
const FallbackFamily = "Helvetica"

// documentEpoch is stamped as creation and modification date so that two
// runs over the same data produce byte-identical files.
var documentEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Geometry describes the page setup of a report.
type Geometry struct {
	Orientation string
	Unit        string
	PageSize    string
}

// DefaultGeometry is portrait A4 measured in millimeters.
func DefaultGeometry() Geometry {
	return Geometry{Orientation: OrientationPortrait, Unit: UnitMillimeter, PageSize: PageSizeA4}
}

// Landscape returns the default geometry turned to landscape.
func Landscape() Geometry {
	g := DefaultGeometry()
	g.Orientation = OrientationLandscape
	return g
}

// FontFiles names a UTF-8 TrueType family used for body text.
type FontFiles struct {
	Family  string
	Regular string // path to the regular face
	Bold    string // path to the bold face, optional
}

// Option is a functional option for configuring a new document via NewDocument.
type Option func(*documentConfig)

type documentConfig struct {
	geometry Geometry
	font     *FontFiles
	compress bool
	margin   float64
	log      *zap.Logger
}

// WithGeometry replaces the whole page setup.
func WithGeometry(g Geometry) Option {
	return func(c *documentConfig) {
		if g.Orientation != "" {
			c.geometry.Orientation = g.Orientation
		}
		if g.Unit != "" {
			c.geometry.Unit = g.Unit
		}
		if g.PageSize != "" {
			c.geometry.PageSize = g.PageSize
		}
	}
}

// WithOrientation sets the page orientation.
// Use OrientationPortrait ("portrait") or OrientationLandscape ("landscape").
func WithOrientation(orientation string) Option {
	return func(c *documentConfig) {
		c.geometry.Orientation = orientation
	}
}

// WithUnit sets the measurement unit for page dimensions and drawing.
func WithUnit(unit string) Option {
	return func(c *documentConfig) {
		c.geometry.Unit = unit
	}
}

// WithPageSize sets the page size by name.
func WithPageSize(size string) Option {
	return func(c *documentConfig) {
		c.geometry.PageSize = size
	}
}

// WithUTF8Font registers a TrueType family as the document body font.
func WithUTF8Font(f FontFiles) Option {
	return func(c *documentConfig) {
		if f.Family == "" || f.Regular == "" {
			c.font = nil
			return
		}
		c.font = &f
	}
}

// WithCompression toggles content stream compression. Tests disable it to
// inspect the drawn text.
func WithCompression(on bool) Option {
	return func(c *documentConfig) {
		c.compress = on
	}
}

// WithMargin sets the left, top, right and bottom margin in document units.
func WithMargin(m float64) Option {
	return func(c *documentConfig) {
		c.margin = m
	}
}

// WithLogger sets the logger used to report font fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(c *documentConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// NewDocument creates an empty document (no pages) using functional options.
// If no options are specified, defaults to portrait A4 with millimeter units
// and the Helvetica core font.
//
// Example:
//
//	doc := hrdocs.NewDocument(
//	    hrdocs.WithOrientation(hrdocs.OrientationLandscape),
//	    hrdocs.WithUTF8Font(hrdocs.FontFiles{Family: "Sarabun", Regular: "fonts/THSarabunNew.ttf"}),
//	)
func NewDocument(opts ...Option) *Document {
	cfg := &documentConfig{
		geometry: DefaultGeometry(),
		compress: true,
		margin:   10,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pdf := fpdf.New(cfg.geometry.Orientation, cfg.geometry.Unit, cfg.geometry.PageSize, "")
	pdf.SetCompression(cfg.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(documentEpoch)
	pdf.SetModificationDate(documentEpoch)
	pdf.SetMargins(cfg.margin, cfg.margin, cfg.margin)
	pdf.SetAutoPageBreak(true, cfg.margin)

	doc := &Document{
		Fpdf:      pdf,
		Family:    FallbackFamily,
		Geometry:  cfg.geometry,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	if cfg.font != nil {
		if err := doc.registerFont(*cfg.font); err != nil {
			cfg.log.Warn("utf-8 font unavailable, using core font",
				zap.String("family", cfg.font.Family),
				zap.String("fallback", FallbackFamily),
				zap.Error(err))
		}
	}
	return doc
}

func (d *Document) registerFont(f FontFiles) error {
	regular, err := os.ReadFile(f.Regular)
	if err != nil {
		return err
	}
	bold := regular
	if f.Bold != "" {
		if bold, err = os.ReadFile(f.Bold); err != nil {
			return err
		}
	}
	d.AddUTF8FontFromBytes(f.Family, "", regular)
	d.AddUTF8FontFromBytes(f.Family, "B", bold)
	if d.Err() {
		err := d.Error()
		d.ClearError()
		return err
	}
	d.Family = f.Family
	d.translate = nil
	return nil
}
