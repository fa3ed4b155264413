package board

import (
	"fmt"
	"math"
)

// ID uniquely identifies an element for the whole of its lifetime.
type ID string

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool { return id == "" }

// Vec2 is a point or displacement on the world plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Kind enumerates the element variants.
type Kind int

const (
	KindNote    Kind = iota // text note with a fill color
	KindImage               // embedded bitmap
	KindArrow               // line segment defined by two world points
	KindDrawing             // freehand raster, empty until first edited
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindImage:
		return "image"
	case KindArrow:
		return "arrow"
	case KindDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// KindFromString parses the wire discriminator.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "note":
		return KindNote, nil
	case "image":
		return KindImage, nil
	case "arrow":
		return KindArrow, nil
	case "drawing":
		return KindDrawing, nil
	}
	return 0, fmt.Errorf("unknown element kind %q", s)
}

// Element is one item on the board. Pos is the world-space center.
// Z is a real-valued stacking key; render order is ascending Z with ties
// broken by document order. Data carries the kind-specific payload.
type Element struct {
	ID       ID
	Kind     Kind
	Pos      Vec2
	W        float64
	H        float64
	Rotation float64 // degrees
	Z        float64
	Data     Data
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (e Element) Clone() Element {
	e.Data = cloneData(e.Data)
	return e
}

// Translated returns a copy moved by d. Arrows shift both endpoints so the
// derived fields stay consistent with the stored geometry.
func (e Element) Translated(d Vec2) Element {
	out := e.Clone()
	if a, ok := out.Data.(ArrowData); ok {
		a.Start = a.Start.Add(d)
		a.End = a.End.Add(d)
		out.Data = a
		out.deriveArrow()
		return out
	}
	out.Pos = out.Pos.Add(d)
	return out
}

// ArrowThickness is the height assigned to arrow elements; an arrow's length
// and angle live in W and Rotation, height is the stroke extent.
const ArrowThickness = 8

// deriveArrow recomputes Pos, W, H and Rotation from the arrow endpoints.
// Arrow endpoints are authoritative; the spatial attributes are never set
// independently.
func (e *Element) deriveArrow() {
	a, ok := e.Data.(ArrowData)
	if !ok {
		return
	}
	d := a.End.Sub(a.Start)
	e.W = math.Hypot(d.X, d.Y)
	e.H = ArrowThickness
	e.Rotation = math.Atan2(d.Y, d.X) * 180 / math.Pi
	e.Pos = Vec2{(a.Start.X + a.End.X) / 2, (a.Start.Y + a.End.Y) / 2}
}

// Normalized returns a copy with derived attributes recomputed. For arrows
// this re-derives Pos/W/H/Rotation from the stored endpoints; other kinds
// are returned unchanged. Callers replacing whole elements (update paths)
// run records through this so no external mutation can desynchronize an
// arrow's geometry.
func (e Element) Normalized() Element {
	out := e.Clone()
	out.deriveArrow()
	return out
}

// SetArrowEndpoints replaces the endpoints of an arrow element and recomputes
// the derived spatial attributes. It is the only sanctioned way to move an
// arrow's geometry.
func (e *Element) SetArrowEndpoints(start, end Vec2) error {
	a, ok := e.Data.(ArrowData)
	if !ok {
		return fmt.Errorf("element %s is a %s, not an arrow", e.ID, e.Kind)
	}
	a.Start = start
	a.End = end
	e.Data = a
	e.deriveArrow()
	return nil
}

// NewNote builds a note element without identity or stacking; the editor
// assigns ID and Z on creation.
func NewNote(text, color string, at Vec2, w, h float64) Element {
	return Element{
		Kind: KindNote,
		Pos:  at,
		W:    w,
		H:    h,
		Data: NoteData{Text: text, Color: color},
	}
}

// NewImage builds an image element centered at the given point.
func NewImage(ref BitmapRef, at Vec2, w, h float64) Element {
	return Element{
		Kind: KindImage,
		Pos:  at,
		W:    w,
		H:    h,
		Data: ImageData{Bitmap: ref},
	}
}

// NewArrow builds an arrow element; spatial attributes are derived from the
// endpoints.
func NewArrow(start, end Vec2, color string) Element {
	e := Element{
		Kind: KindArrow,
		Data: ArrowData{Start: start, End: end, Color: color},
	}
	e.deriveArrow()
	return e
}

// NewDrawing builds an empty drawing element; its bitmap stays empty until
// the first raster editing session saves into it.
func NewDrawing(at Vec2, w, h float64) Element {
	return Element{
		Kind: KindDrawing,
		Pos:  at,
		W:    w,
		H:    h,
		Data: DrawingData{},
	}
}
