package pageops

import (
	"strings"

	hrdocs "github.com/lvillar/hrdocs"
)

// TextWatermark defines a text-based watermark.
type TextWatermark struct {
	Text     string   // watermark text
	FontSize float64  // font size in points (default: 60)
	Color    RGBColor // text color (default: light gray)
	Opacity  float64  // 0.0 to 1.0 (default: 0.3)
	Angle    float64  // rotation angle in degrees (default: 45)
}

func (wm TextWatermark) withDefaults() TextWatermark {
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (RGBColor{}) {
		wm.Color = RGBColor{200, 200, 200}
	}
	return wm
}

// Decorate draws the watermark under the content of every page of doc. A
// blank text is a no-op.
func (wm TextWatermark) Decorate(doc *hrdocs.Document) error {
	if strings.TrimSpace(wm.Text) == "" {
		return nil
	}
	wm = wm.withDefaults()
	doc.OnNewPage(func() { drawTextWatermark(doc, wm) })
	return nil
}

// drawTextWatermark renders the watermark text centered on the current page.
func drawTextWatermark(doc *hrdocs.Document, wm TextWatermark) {
	text := doc.Printable(wm.Text)
	pageW, pageH := doc.GetPageSize()
	size := wm.FontSize / doc.GetConversionRatio()

	doc.SetBodyFont("B", wm.FontSize)
	doc.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	doc.SetAlpha(wm.Opacity, "Normal")

	textW := doc.GetStringWidth(text)
	cx, cy := pageW/2, pageH/2

	doc.TransformBegin()
	doc.TransformRotate(wm.Angle, cx, cy)
	doc.Text(cx-textW/2, cy+size/3, text)
	doc.TransformEnd()

	doc.SetAlpha(1.0, "Normal")
	doc.SetTextColor(0, 0, 0)
}
