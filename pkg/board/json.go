package board

import (
	"encoding/json"
	"fmt"
)

// record is the flat wire shape of one element: shared attributes plus the
// union of kind-specific fields, discriminated by Kind. Z is exported as-is
// with no normalization.
type record struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	W        float64    `json:"width"`
	H        float64    `json:"height"`
	Rotation float64    `json:"rotation"`
	Z        float64    `json:"z"`
	Text     *string    `json:"text,omitempty"`
	Color    string     `json:"color,omitempty"`
	Align    string     `json:"align,omitempty"`
	Bitmap   *BitmapRef `json:"bitmap,omitempty"`
	Start    *Vec2      `json:"start,omitempty"`
	End      *Vec2      `json:"end,omitempty"`
}

func toRecord(e Element) record {
	r := record{
		ID:       string(e.ID),
		Kind:     e.Kind.String(),
		X:        e.Pos.X,
		Y:        e.Pos.Y,
		W:        e.W,
		H:        e.H,
		Rotation: e.Rotation,
		Z:        e.Z,
	}
	switch v := e.Data.(type) {
	case NoteData:
		text := v.Text
		r.Text = &text
		r.Color = v.Color
		r.Align = v.Align
	case ImageData:
		if !v.Bitmap.Empty() {
			ref := v.Bitmap.Clone()
			r.Bitmap = &ref
		}
	case ArrowData:
		start, end := v.Start, v.End
		r.Start = &start
		r.End = &end
		r.Color = v.Color
	case DrawingData:
		if !v.Bitmap.Empty() {
			ref := v.Bitmap.Clone()
			r.Bitmap = &ref
		}
	}
	return r
}

func fromRecord(r record) (Element, error) {
	if r.ID == "" {
		return Element{}, fmt.Errorf("element record lacks an identifier")
	}
	kind, err := KindFromString(r.Kind)
	if err != nil {
		return Element{}, fmt.Errorf("element %q: %w", r.ID, err)
	}
	e := Element{
		ID:       ID(r.ID),
		Kind:     kind,
		Pos:      Vec2{r.X, r.Y},
		W:        r.W,
		H:        r.H,
		Rotation: r.Rotation,
		Z:        r.Z,
	}
	switch kind {
	case KindNote:
		nd := NoteData{Color: r.Color, Align: r.Align}
		if r.Text != nil {
			nd.Text = *r.Text
		}
		e.Data = nd
	case KindImage:
		id := ImageData{}
		if r.Bitmap != nil {
			id.Bitmap = r.Bitmap.Clone()
		}
		e.Data = id
	case KindArrow:
		ad := ArrowData{Color: r.Color}
		if r.Start != nil {
			ad.Start = *r.Start
		}
		if r.End != nil {
			ad.End = *r.End
		}
		e.Data = ad
	case KindDrawing:
		dd := DrawingData{}
		if r.Bitmap != nil {
			dd.Bitmap = r.Bitmap.Clone()
		}
		e.Data = dd
	}
	return e, nil
}

// MarshalJSON encodes the element as its flat wire record.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(toRecord(e))
}

// UnmarshalJSON decodes an element from its flat wire record. A record
// without an identifier or with an unknown kind is rejected.
func (e *Element) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	el, err := fromRecord(r)
	if err != nil {
		return err
	}
	*e = el
	return nil
}

// EncodeJSON serializes the document as an ordered sequence of element
// records. Byte-for-byte re-import reproduces an equivalent document.
func EncodeJSON(d Document) ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	return json.MarshalIndent(d, "", "  ")
}

// DecodeJSON parses a document from its exported form. The input must be a
// sequence of records each carrying an identifier; anything else is rejected
// without producing a partial document.
func DecodeJSON(data []byte) (Document, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("board import: input is not a sequence of elements: %w", err)
	}
	doc := make(Document, 0, len(raw))
	for i, msg := range raw {
		var e Element
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, fmt.Errorf("board import: record %d: %w", i, err)
		}
		doc = append(doc, e)
	}
	return doc, nil
}
