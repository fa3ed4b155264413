// Package raster holds the per-session drawing surface opened on a drawing
// element. It keeps its own undo/redo history of full-surface snapshots,
// independent of document history; the history dies with the session and
// only the encoded payload crosses back into the document.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif" // decoders for existing drawing payloads
	_ "image/jpeg"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/history"
)

// Tool selects how a stroke composites onto the surface.
type Tool int

const (
	// ToolPencil composites the stroke color over existing pixels.
	ToolPencil Tool = iota
	// ToolEraser composites the surface's base color. The buffer is opaque,
	// so erasing reveals blank surface, never transparency.
	ToolEraser
)

// Buffer is a fixed-resolution opaque drawing surface with whole-stroke
// snapshot history. Not safe for concurrent use.
type Buffer struct {
	img    *image.RGBA
	ctx    *gg.Context
	base   string
	hist   *history.Store[*image.RGBA]
	stroke *strokeState
}

// strokeState is captured once at stroke start; mid-stroke tool changes do
// not affect a stroke in flight.
type strokeState struct {
	color string
	width float64
	last  board.Vec2
}

func cloneSurface(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// Open creates a session surface of the given resolution. A non-empty
// payload is decoded and stretched to fit; otherwise the surface starts
// blank in the base color. The initial surface is history entry zero.
func Open(width, height int, base string, ref board.BitmapRef) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %dx%d", width, height)
	}
	if base == "" {
		base = "#ffffff"
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ctx := gg.NewContextForRGBA(img)
	ctx.SetHexColor(base)
	ctx.Clear()

	if !ref.Empty() {
		src, _, err := image.Decode(bytes.NewReader(ref.Bytes))
		if err != nil {
			return nil, fmt.Errorf("raster: decode payload: %w", err)
		}
		xdraw.BiLinear.Scale(img, img.Rect, src, src.Bounds(), xdraw.Over, nil)
	}

	b := &Buffer{
		img:  img,
		ctx:  ctx,
		base: base,
		hist: history.New(img, cloneSurface),
	}
	return b, nil
}

// Size reports the surface resolution.
func (b *Buffer) Size() (width, height int) {
	return b.img.Rect.Dx(), b.img.Rect.Dy()
}

// BeginStroke starts a stroke at the given surface point, capturing tool,
// color, and width for the whole stroke. A stroke already in flight is
// ended first.
func (b *Buffer) BeginStroke(tool Tool, color string, width float64, at board.Vec2) {
	if b.stroke != nil {
		b.EndStroke()
	}
	if tool == ToolEraser {
		color = b.base
	}
	if width <= 0 {
		width = 1
	}
	b.stroke = &strokeState{color: color, width: width, last: at}

	// A tap with no movement still leaves a dot.
	b.ctx.SetHexColor(color)
	b.ctx.DrawCircle(at.X, at.Y, width/2)
	b.ctx.Fill()
}

// StrokeTo extends the active stroke to the given point.
func (b *Buffer) StrokeTo(at board.Vec2) error {
	if b.stroke == nil {
		return fmt.Errorf("raster: stroke not started")
	}
	b.ctx.SetHexColor(b.stroke.color)
	b.ctx.SetLineWidth(b.stroke.width)
	b.ctx.SetLineCap(gg.LineCapRound)
	b.ctx.DrawLine(b.stroke.last.X, b.stroke.last.Y, at.X, at.Y)
	b.ctx.Stroke()
	b.stroke.last = at
	return nil
}

// EndStroke commits the finished stroke as one snapshot entry, truncating
// any redo entries. Calling it with no stroke in flight is a no-op.
func (b *Buffer) EndStroke() {
	if b.stroke == nil {
		return
	}
	b.stroke = nil
	b.hist.Commit(b.img)
}

// Clear paints the whole surface in the base color and commits it as an
// ordinary entry, so it undoes like any stroke.
func (b *Buffer) Clear() {
	b.stroke = nil
	b.ctx.SetHexColor(b.base)
	b.ctx.Clear()
	b.hist.Commit(b.img)
}

// Undo restores the previous snapshot verbatim. Inert at entry zero.
func (b *Buffer) Undo() bool {
	if !b.hist.Undo() {
		return false
	}
	b.restore()
	return true
}

// Redo restores the next snapshot verbatim. Inert past the newest entry.
func (b *Buffer) Redo() bool {
	if !b.hist.Redo() {
		return false
	}
	b.restore()
	return true
}

func (b *Buffer) restore() {
	b.stroke = nil
	copy(b.img.Pix, b.hist.Current().Pix)
}

// CanUndo reports whether Undo would restore an older snapshot.
func (b *Buffer) CanUndo() bool { return b.hist.CanUndo() }

// CanRedo reports whether Redo would restore a newer snapshot.
func (b *Buffer) CanRedo() bool { return b.hist.CanRedo() }

// Encode renders the current surface into the payload handed back to the
// drawing element on save.
func (b *Buffer) Encode() (board.BitmapRef, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.img); err != nil {
		return board.BitmapRef{}, fmt.Errorf("raster: encode surface: %w", err)
	}
	return board.BitmapRef{Mime: "image/png", Bytes: buf.Bytes()}, nil
}
