package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/lvillar/hrdocs/store"
)

// Resolver expands descriptors into a predicate, consulting the store for
// reference-table ranges.
type Resolver struct {
	store store.Store
	log   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report degraded lookups.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver returns a resolver reading reference tables from s.
func NewResolver(s store.Store, opts ...Option) *Resolver {
	r := &Resolver{store: s, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the conjunction of all descriptors.
//
// A reference range that matches no codes yields a predicate matching
// nothing. A reference lookup that fails is logged and its constraint is
// dropped, so the result is looser than requested but still usable.
func (r *Resolver) Resolve(ctx context.Context, descs ...Descriptor) store.Predicate {
	var p store.Predicate
	for _, d := range descs {
		q, ok := r.resolveOne(ctx, d)
		if !ok {
			continue
		}
		p = p.And(q)
		if p.None {
			return p
		}
	}
	return p
}

func (r *Resolver) resolveOne(ctx context.Context, d Descriptor) (store.Predicate, bool) {
	switch d.Kind {
	case KindLabel:
		if d.Label == "" {
			return store.Predicate{}, false
		}
		return store.Where(store.Cond{Field: d.Field, Op: store.OpLike, Value: d.Label}), true
	case KindID:
		if isOpen(d.ID) {
			return store.Predicate{}, false
		}
		return store.Where(store.Cond{Field: d.Field, Op: store.OpEq, Value: d.ID}), true
	case KindRange:
		conds := rangeConds(d.Field, d.From, d.To)
		if d.Ref == nil {
			if len(conds) == 0 {
				return store.Predicate{}, false
			}
			return store.Where(conds...), true
		}
		return r.resolveRef(ctx, d)
	}
	r.log.Warn("unknown filter kind", zap.String("field", d.Field), zap.Stringer("kind", d.Kind))
	return store.Predicate{}, false
}

func (r *Resolver) resolveRef(ctx context.Context, d Descriptor) (store.Predicate, bool) {
	ref := *d.Ref
	conds := rangeConds(ref.CodeField, d.From, d.To)
	if len(conds) == 0 {
		return store.Predicate{}, false
	}
	rows, err := r.store.Select(ctx, store.Query{
		Collection: ref.Collection,
		Fields:     []string{ref.IDField},
		Where:      store.Where(conds...),
		OrderBy:    []string{ref.IDField},
	})
	if err != nil {
		r.log.Warn("reference lookup failed, constraint dropped",
			zap.String("field", d.Field),
			zap.String("collection", ref.Collection),
			zap.Any("from", d.From),
			zap.Any("to", d.To),
			zap.Error(err))
		return store.Predicate{}, false
	}
	ids := store.Column(rows, ref.IDField)
	if len(ids) == 0 {
		r.log.Debug("reference range matched nothing",
			zap.String("field", d.Field),
			zap.String("collection", ref.Collection))
		return store.MatchNone(), true
	}
	return store.Where(store.Cond{Field: d.Field, Op: store.OpIn, Value: ids}), true
}
