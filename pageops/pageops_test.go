package pageops_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/pageops"
)

// createTestPDF renders a document with numPages labeled pages.
func createTestPDF(t *testing.T, label string, numPages int) []byte {
	t.Helper()
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	doc.SetBodyFont("", 14)
	for i := 1; i <= numPages; i++ {
		doc.AddPage()
		doc.Text(20, 30, fmt.Sprintf("%s %d", label, i))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	n, err := pageops.PageCount(createTestPDF(t, "page", 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = pageops.PageCount([]byte("plain text"))
	assert.ErrorIs(t, err, pageops.ErrNotPDF)
}

func TestMerge(t *testing.T) {
	a := createTestPDF(t, "first", 2)
	b := createTestPDF(t, "second", 3)

	var buf bytes.Buffer
	pages, err := pageops.Merge(&buf, a, b)
	require.NoError(t, err)
	assert.Equal(t, 5, pages)

	n, err := pageops.PageCount(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMergeRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	_, err := pageops.Merge(&buf)
	assert.Error(t, err)

	_, err = pageops.Merge(&buf, createTestPDF(t, "ok", 1), []byte("not a pdf"))
	assert.ErrorIs(t, err, pageops.ErrNotPDF)
	assert.Contains(t, err.Error(), "document 2")
}

func TestLetterheadDrawnOnEveryPage(t *testing.T) {
	stationery := createTestPDF(t, "ACME HOLDINGS", 1)
	lh, err := pageops.NewLetterhead(stationery)
	require.NoError(t, err)

	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	require.NoError(t, lh.Decorate(doc))
	doc.SetBodyFont("", 10)
	for i := 0; i < 2; i++ {
		doc.AddPage()
		doc.Text(20, 60, "body")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	body := buf.String()
	assert.Equal(t, 2, strings.Count(body, " Do Q Q"))
}

func TestLetterheadPage(t *testing.T) {
	stationery := createTestPDF(t, "ACME HOLDINGS", 2)

	lh, err := pageops.NewLetterhead(stationery)
	require.NoError(t, err)
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	require.NoError(t, lh.WithPage(2).Decorate(doc))
	doc.AddPage()
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.Equal(t, 1, strings.Count(buf.String(), " Do Q Q"))

	lh, err = pageops.NewLetterhead(stationery)
	require.NoError(t, err)
	err = lh.WithPage(3).Decorate(hrdocs.NewDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLetterheadRejectsBadInput(t *testing.T) {
	_, err := pageops.NewLetterhead([]byte("GIF89a"))
	assert.ErrorIs(t, err, pageops.ErrNotPDF)

	_, err = pageops.LoadLetterhead(t.TempDir() + "/missing.pdf")
	assert.Error(t, err)

	lh, err := pageops.NewLetterhead([]byte("%PDF-1.4\nthis is not a real document\n"))
	require.NoError(t, err)
	doc := hrdocs.NewDocument()
	assert.Error(t, lh.Decorate(doc))
}

func TestWatermark(t *testing.T) {
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	require.NoError(t, pageops.TextWatermark{Text: "CONFIDENTIAL"}.Decorate(doc))
	doc.AddPage()
	doc.AddPage()
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.Equal(t, 2, strings.Count(buf.String(), "(CONFIDENTIAL) Tj"))
}

func TestBlankWatermarkIsNoop(t *testing.T) {
	doc := hrdocs.NewDocument(hrdocs.WithCompression(false))
	require.NoError(t, pageops.TextWatermark{Text: "  "}.Decorate(doc))
	doc.AddPage()
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.NotContains(t, buf.String(), "/ExtGState")
}
