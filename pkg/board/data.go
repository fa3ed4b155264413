package board

// ---------------------------------------------------------------------------
// Bitmap payloads
// ---------------------------------------------------------------------------

// BitmapRef is a self-describing embedded bitmap: a format tag plus the
// encoded bytes. It is carried inline in element records; Bytes marshals as
// base64 through encoding/json.
type BitmapRef struct {
	Mime  string `json:"mime,omitempty"`
	Bytes []byte `json:"data,omitempty"`
}

// Empty reports whether the reference carries no payload.
func (b BitmapRef) Empty() bool { return len(b.Bytes) == 0 }

// Clone returns a copy with its own byte slice.
func (b BitmapRef) Clone() BitmapRef {
	if b.Bytes == nil {
		return b
	}
	out := b
	out.Bytes = make([]byte, len(b.Bytes))
	copy(out.Bytes, b.Bytes)
	return out
}

// ---------------------------------------------------------------------------
// Kind-specific payloads
// ---------------------------------------------------------------------------

// Data is the interface for kind-specific element payloads.
type Data interface {
	elementData() // marker method restricting implementations to this package
}

// NoteData is the payload of a note: its text, fill color token, and
// optional text alignment.
type NoteData struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
	Align string `json:"align,omitempty"`
}

func (NoteData) elementData() {}

// ImageData is the payload of a placed image.
type ImageData struct {
	Bitmap BitmapRef `json:"bitmap"`
}

func (ImageData) elementData() {}

// ArrowData holds the authoritative endpoints of an arrow. The owning
// element's Pos/W/H/Rotation are derived from these and kept consistent by
// Element.SetArrowEndpoints.
type ArrowData struct {
	Start Vec2   `json:"start"`
	End   Vec2   `json:"end"`
	Color string `json:"color,omitempty"`
}

func (ArrowData) elementData() {}

// DrawingData is the payload of a freehand drawing. Bitmap is empty until
// the first editing session saves.
type DrawingData struct {
	Bitmap BitmapRef `json:"bitmap"`
}

func (DrawingData) elementData() {}

// cloneData deep-copies a payload. Only bitmap-bearing variants hold
// mutable state.
func cloneData(d Data) Data {
	switch v := d.(type) {
	case ImageData:
		v.Bitmap = v.Bitmap.Clone()
		return v
	case DrawingData:
		v.Bitmap = v.Bitmap.Clone()
		return v
	default:
		return d
	}
}
