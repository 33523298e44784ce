package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/table"
)

// Decorator prepares a fresh document before any page is drawn, for
// example by installing a letterhead background.
type Decorator interface {
	Decorate(doc *hrdocs.Document) error
}

// Engine generates documents for the modules of a registry.
type Engine struct {
	registry   *Registry
	log        *zap.Logger
	docOpts    []hrdocs.Option
	decorators []Decorator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDocumentOptions applies opts to every new document. The module's
// geometry is applied after them.
func WithDocumentOptions(opts ...hrdocs.Option) Option {
	return func(e *Engine) {
		e.docOpts = append(e.docOpts, opts...)
	}
}

// WithDecorator adds a decorator run on every new document.
func WithDecorator(d Decorator) Option {
	return func(e *Engine) {
		if d != nil {
			e.decorators = append(e.decorators, d)
		}
	}
}

// NewEngine returns an engine over registry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Generate fetches, renders and assembles the report named title.
//
// A fetch failure aborts the report with a ReportError wrapping
// hrdocs.ErrFetch; no partial document is produced. Output is byte-for-byte
// reproducible for the same title, filters and data.
func (e *Engine) Generate(ctx context.Context, title string, mode Mode, filters hrdocs.Filters) (*Output, error) {
	if !mode.Valid() {
		return nil, hrdocs.NewReportError("generate", title, fmt.Errorf("%w: %q", hrdocs.ErrInvalidMode, mode))
	}
	m, ok := e.registry.Lookup(title)
	if !ok {
		return nil, hrdocs.NewReportError("lookup", title, hrdocs.ErrUnknownReport)
	}
	if filters == nil {
		filters = hrdocs.Filters{}
	}
	log := e.log.With(zap.String("report", title), zap.String("mode", string(mode)))
	start := time.Now()

	rows, err := m.Fetch(ctx, filters)
	if err != nil {
		log.Error("fetch failed", zap.Error(err))
		return nil, hrdocs.NewReportError("fetch", title, fmt.Errorf("%w: %w", hrdocs.ErrFetch, err))
	}

	opts := make([]hrdocs.Option, 0, len(e.docOpts)+2)
	opts = append(opts, hrdocs.WithLogger(log))
	opts = append(opts, e.docOpts...)
	opts = append(opts, hrdocs.WithGeometry(m.Geometry))
	doc := hrdocs.NewDocument(opts...)
	for _, d := range e.decorators {
		if err := d.Decorate(doc); err != nil {
			log.Warn("decorator skipped", zap.Error(err))
		}
	}

	if err := e.render(ctx, m, doc, rows, filters); err != nil {
		log.Error("render failed", zap.Error(err))
		return nil, hrdocs.NewReportError("render", title, fmt.Errorf("%w: %w", hrdocs.ErrRender, err))
	}

	out, err := Assemble(doc, title, mode)
	if err != nil {
		return nil, err
	}
	log.Info("report generated",
		zap.Int("rows", len(rows)),
		zap.Int("pages", out.Pages),
		zap.Int("bytes", len(out.Data)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (e *Engine) render(ctx context.Context, m Module, doc *hrdocs.Document, rows []hrdocs.Row, filters hrdocs.Filters) error {
	if m.Render != nil {
		if err := m.Render(ctx, doc, rows, filters); err != nil {
			return err
		}
		return doc.Error()
	}
	return table.RenderReport(doc, m.DisplayHeading(), m.columns(filters), rows, m.StyleFor)
}
