// Package export renders a board document to PDF.
package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/chazu/slate/pkg/board"
)

const pageMargin = 10 // mm

// PDF renders the document onto a single A4 page, scaled so the bounding box
// of all elements fits inside the margins. Elements are drawn back to front.
func PDF(w io.Writer, doc board.Document) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetFont("Helvetica", "", 10)

	pageW, pageH := p.GetPageSize()
	fit := fitTransform(doc, pageW-2*pageMargin, pageH-2*pageMargin)

	for _, el := range doc.RenderOrder() {
		drawElement(p, el, fit)
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: render pdf: %w", err)
	}
	return nil
}

// PDFFile renders the document to a file at path.
func PDFFile(path string, doc board.Document) error {
	var buf bytes.Buffer
	if err := PDF(&buf, doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// transform maps world coordinates onto the page.
type transform struct {
	scale  float64
	origin board.Vec2 // world point mapped to the page margin corner
}

func (t transform) apply(p board.Vec2) (x, y float64) {
	return pageMargin + (p.X-t.origin.X)*t.scale,
		pageMargin + (p.Y-t.origin.Y)*t.scale
}

func fitTransform(doc board.Document, availW, availH float64) transform {
	if len(doc) == 0 {
		return transform{scale: 1}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	// Pos is the element center.
	for _, el := range doc {
		minX = math.Min(minX, el.Pos.X-el.W/2)
		minY = math.Min(minY, el.Pos.Y-el.H/2)
		maxX = math.Max(maxX, el.Pos.X+el.W/2)
		maxY = math.Max(maxY, el.Pos.Y+el.H/2)
	}
	w, h := maxX-minX, maxY-minY
	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(availW/w, availH/h)
	} else if w > 0 {
		scale = availW / w
	} else if h > 0 {
		scale = availH / h
	}
	if scale > 1 {
		scale = 1
	}
	return transform{scale: scale, origin: board.Vec2{X: minX, Y: minY}}
}

func drawElement(p *gofpdf.Fpdf, el board.Element, t transform) {
	switch data := el.Data.(type) {
	case board.NoteData:
		w, h := el.W*t.scale, el.H*t.scale
		x, y := t.apply(el.Pos)
		x, y = x-w/2, y-h/2
		r, g, b := hexRGB(data.Color, 255, 217, 102)
		p.SetFillColor(r, g, b)
		p.Rect(x, y, w, h, "F")
		p.SetTextColor(0, 0, 0)
		p.SetXY(x+1, y+1)
		p.MultiCell(w-2, 4, data.Text, "", "L", false)
	case board.ArrowData:
		x1, y1 := t.apply(data.Start)
		x2, y2 := t.apply(data.End)
		r, g, b := hexRGB(data.Color, 0, 0, 0)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(0.5)
		p.Line(x1, y1, x2, y2)
		drawArrowHead(p, x1, y1, x2, y2)
	case board.ImageData:
		drawBitmap(p, el, data.Bitmap, t)
	case board.DrawingData:
		drawBitmap(p, el, data.Bitmap, t)
	}
}

func drawArrowHead(p *gofpdf.Fpdf, x1, y1, x2, y2 float64) {
	const size = 2.5 // mm
	angle := math.Atan2(y2-y1, x2-x1)
	for _, spread := range []float64{math.Pi / 7, -math.Pi / 7} {
		p.Line(x2, y2,
			x2-size*math.Cos(angle-spread),
			y2-size*math.Sin(angle-spread))
	}
}

func drawBitmap(p *gofpdf.Fpdf, el board.Element, ref board.BitmapRef, t transform) {
	if ref.Empty() {
		return
	}
	var kind string
	switch ref.Mime {
	case "image/png":
		kind = "PNG"
	case "image/jpeg", "image/jpg":
		kind = "JPG"
	case "image/gif":
		kind = "GIF"
	default:
		return // unsupported payload format, skip rather than fail the export
	}
	name := string(el.ID)
	p.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(ref.Bytes))
	w, h := el.W*t.scale, el.H*t.scale
	x, y := t.apply(el.Pos)
	p.ImageOptions(name, x-w/2, y-h/2, w, h, false,
		gofpdf.ImageOptions{ImageType: kind}, 0, "")
}

// hexRGB parses #rrggbb, falling back to the given default components.
func hexRGB(hex string, dr, dg, db int) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
