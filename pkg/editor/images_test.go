package editor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chazu/slate/pkg/board"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPlaceImagesBatch(t *testing.T) {
	e := New(nil)
	loads := []ImageLoad{
		{Ref: board.BitmapRef{Mime: "image/png", Bytes: pngBytes(t, 16, 12)}},
		{Ref: board.BitmapRef{Mime: "image/png", Bytes: pngBytes(t, 8, 8)}},
	}

	placed := e.PlaceImages(board.Vec2{X: 100, Y: 100}, loads)
	if len(placed) != 2 {
		t.Fatalf("placed %d elements, want 2", len(placed))
	}

	if placed[0].W != 16 || placed[0].H != 12 {
		t.Errorf("first image sized %gx%g, want natural 16x12", placed[0].W, placed[0].H)
	}
	if placed[0].Pos != (board.Vec2{X: 100, Y: 100}) {
		t.Errorf("first image at %v, want (100, 100)", placed[0].Pos)
	}
	if placed[1].Pos != (board.Vec2{X: 124, Y: 124}) {
		t.Errorf("second image at %v, want cascade offset (124, 124)", placed[1].Pos)
	}
	if placed[1].Z <= placed[0].Z {
		t.Errorf("batch z order: %g then %g", placed[0].Z, placed[1].Z)
	}

	// The whole batch is one undoable entry.
	e.Undo()
	if len(e.Document()) != 0 {
		t.Errorf("one undo should remove the whole batch, %d elements remain",
			len(e.Document()))
	}
}

func TestPlaceImagesDropsFailedLoads(t *testing.T) {
	e := New(nil)
	loads := []ImageLoad{
		{Err: errors.New("read failed")},
		{Ref: board.BitmapRef{Mime: "image/png", Bytes: []byte("not an image")}},
		{Ref: board.BitmapRef{Mime: "image/png", Bytes: pngBytes(t, 4, 4)}},
	}

	placed := e.PlaceImages(board.Vec2{}, loads)
	if len(placed) != 1 {
		t.Fatalf("placed %d elements, want 1 (bad loads dropped)", len(placed))
	}
	if placed[0].W != 4 || placed[0].H != 4 {
		t.Errorf("surviving image sized %gx%g, want 4x4", placed[0].W, placed[0].H)
	}
}

func TestPlaceImagesAllFailedCommitsNothing(t *testing.T) {
	e := New(nil)
	before := e.CanUndo()

	placed := e.PlaceImages(board.Vec2{}, []ImageLoad{
		{Err: errors.New("read failed")},
		{},
	})
	if placed != nil {
		t.Fatalf("placed = %v, want nil", placed)
	}
	if e.CanUndo() != before {
		t.Error("empty batch must not commit a history entry")
	}
}
