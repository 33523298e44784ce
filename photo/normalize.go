package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// FormatJPEG is the encoding of every normalized image.
const FormatJPEG = "JPG"

// MaxPhotoPixels caps the decoded size of a source photo. The header is
// checked before any pixel buffer is allocated.
const MaxPhotoPixels = 40_000_000

// ErrTooLarge is returned for photos whose dimensions exceed MaxPhotoPixels.
var ErrTooLarge = errors.New("photo: image dimensions too large")

// Image is a photo cover-cropped to an exact pixel size.
type Image struct {
	Key    string
	Bitmap *image.RGBA
	Width  int
	Height int
	Format string
	Data   []byte // encoded bitmap
}

// Normalizer turns refs into Images.
type Normalizer struct {
	fetch       Fetcher
	log         *zap.Logger
	concurrency int
	quality     int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for per-photo failures.
func WithLogger(l *zap.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// WithConcurrency bounds the number of photos resolved at once.
func WithConcurrency(c int) Option {
	return func(n *Normalizer) {
		if c > 0 {
			n.concurrency = c
		}
	}
}

// WithQuality sets the JPEG quality, 1 to 100.
func WithQuality(q int) Option {
	return func(n *Normalizer) {
		if q >= 1 && q <= 100 {
			n.quality = q
		}
	}
}

// NewNormalizer returns a normalizer that fetches remote refs with f. A nil
// fetcher restricts it to inline refs.
func NewNormalizer(f Fetcher, opts ...Option) *Normalizer {
	n := &Normalizer{fetch: f, log: zap.NewNop(), concurrency: 4, quality: 90}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize fetches, decodes and cover-crops ref to w×h pixels.
func (n *Normalizer) Normalize(ctx context.Context, ref Ref, w, h int) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("photo: invalid target size %dx%d", w, h)
	}
	data := ref.Data
	if ref.URL != "" {
		if n.fetch == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, ref)
		}
		var err error
		if data, err = n.fetch.Fetch(ctx, ref.URL); err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("photo: empty ref")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("photo: decode %s: %w", ref, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrTooLarge, ref, cfg.Width, cfg.Height)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("photo: decode %s: %w", ref, err)
	}
	dst := CoverCrop(src, w, h)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.quality}); err != nil {
		return nil, fmt.Errorf("photo: encode %s: %w", ref, err)
	}
	return &Image{
		Key:    ref.Key(),
		Bitmap: dst,
		Width:  w,
		Height: h,
		Format: FormatJPEG,
		Data:   buf.Bytes(),
	}, nil
}

// CropRect returns the centered region of src that, scaled by
// max(tw/sw, th/sh), exactly covers a tw×th target.
func CropRect(src image.Rectangle, tw, th int) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 {
		return image.Rectangle{}
	}
	scale := math.Max(float64(tw)/sw, float64(th)/sh)
	cw, ch := float64(tw)/scale, float64(th)/scale
	x0 := float64(src.Min.X) + (sw-cw)/2
	y0 := float64(src.Min.Y) + (sh-ch)/2
	r := image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+cw)), int(math.Round(y0+ch)),
	)
	return r.Intersect(src)
}

// CoverCrop scales the centered crop of src onto a blank white tw×th surface.
func CoverCrop(src image.Image, tw, th int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	crop := CropRect(src.Bounds(), tw, th)
	if crop.Empty() {
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

// Set holds the images resolved for one render call.
type Set struct {
	mu     sync.Mutex
	images map[string]*Image
}

// Get returns the image for ref, if it resolved.
func (s *Set) Get(ref Ref) (*Image, bool) {
	if s == nil || ref.IsZero() {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[ref.Key()]
	return img, ok
}

// Len is the number of resolved images.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

func (s *Set) put(img *Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[img.Key] = img
}

// NormalizeAll resolves every distinct ref concurrently and waits for all
// of them. Failures, including panics while decoding, are logged and leave
// that ref absent from the result.
func (n *Normalizer) NormalizeAll(ctx context.Context, refs []Ref, w, h int) *Set {
	set := &Set{images: make(map[string]*Image)}
	seen := make(map[string]bool, len(refs))

	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for _, ref := range refs {
		if ref.IsZero() || seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					n.log.Warn("photo normalization panicked", zap.Stringer("ref", ref), zap.Any("panic", r))
				}
			}()
			img, err := n.Normalize(ctx, ref, w, h)
			if err != nil {
				n.log.Warn("photo unavailable", zap.Stringer("ref", ref), zap.Error(err))
				return nil
			}
			set.put(img)
			return nil
		})
	}
	g.Wait()
	return set
}
