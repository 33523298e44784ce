package hrdocs_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	hrdocs "github.com/lvillar/hrdocs"
)

func renderPages(t *testing.T, n int, corner hrdocs.Corner) []byte {
	t.Helper()
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	doc.SetBodyFont("", 12)
	for i := 0; i < n; i++ {
		doc.AddPage()
		doc.Text(20, 30, fmt.Sprintf("body %d", i))
	}
	doc.StampPageNumbers(corner)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestStampPageNumbers(t *testing.T) {
	out := renderPages(t, 3, hrdocs.BottomRight)
	for i := 1; i <= 3; i++ {
		assert.Contains(t, string(out), fmt.Sprintf("(page %d / 3) Tj", i))
	}
	assert.NotContains(t, string(out), "(page 4 / 3)")
	assert.NotContains(t, string(out), "(page 0 / 3)")
}

func TestStampPageNumbersCorners(t *testing.T) {
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	doc.AddPage()
	doc.StampPageNumbers(hrdocs.TopRight)
	var top bytes.Buffer
	require.NoError(t, doc.Output(&top))

	bottom := renderPages(t, 1, hrdocs.BottomRight)
	// Same label, different placement.
	assert.Contains(t, top.String(), "(page 1 / 1) Tj")
	assert.Contains(t, string(bottom), "(page 1 / 1) Tj")
	assert.NotEqual(t, top.Bytes(), bottom)
}

func TestDocumentDeterministic(t *testing.T) {
	a := renderPages(t, 2, hrdocs.BottomRight)
	b := renderPages(t, 2, hrdocs.BottomRight)
	assert.True(t, bytes.Equal(a, b), "identical inputs must produce identical bytes")
}

func TestNewDocumentGeometry(t *testing.T) {
	doc := hrdocs.NewDocument(hrdocs.WithGeometry(hrdocs.Landscape()))
	doc.AddPage()
	w, h := doc.GetPageSize()
	assert.Greater(t, w, h)
	assert.InDelta(t, w-20, doc.ContentWidth(), 1e-6)
	assert.Equal(t, 0, hrdocs.NewDocument().PageCount())
}

func TestNewDocumentFontFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	doc := hrdocs.NewDocument(
		hrdocs.WithLogger(zap.New(core)),
		hrdocs.WithUTF8Font(hrdocs.FontFiles{Family: "Sarabun", Regular: "testdata/missing.ttf"}),
	)
	assert.Equal(t, hrdocs.FallbackFamily, doc.Family)
	assert.False(t, doc.Err())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Sarabun", logs.All()[0].ContextMap()["family"])
}

func TestPrintableCoreFont(t *testing.T) {
	doc := hrdocs.NewDocument()
	assert.Equal(t, "Somchai", doc.Printable("Somchai"))
	assert.Equal(t, "caf\xe9", doc.Printable("café"))
	assert.Equal(t, "E001 ...", doc.Printable("E001 กขค"))
}
