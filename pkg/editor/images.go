package editor

import (
	"bytes"
	"image"

	_ "image/gif"  // register decoders for dropped/imported files
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/chazu/slate/pkg/board"
)

// imageCascade offsets each image of a batch so they do not stack exactly on
// top of each other.
const imageCascade = 24

// ImageLoad is the resolved outcome of one asynchronous image read.
type ImageLoad struct {
	Ref board.BitmapRef
	Err error
}

// PlaceImages appends one image element per successfully loaded bitmap,
// sized to the bitmap's natural dimensions, as a single batched commit
// covering the whole batch. Loads that failed or do not decode are dropped
// silently rather than aborting the others. Returns the placed elements;
// nil means nothing was committed.
func (e *Editor) PlaceImages(at board.Vec2, loads []ImageLoad) []board.Element {
	doc := e.hist.Current()
	var placed []board.Element
	for _, ld := range loads {
		if ld.Err != nil || ld.Ref.Empty() {
			continue
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(ld.Ref.Bytes))
		if err != nil {
			continue
		}
		offset := float64(len(placed) * imageCascade)
		el := board.NewImage(ld.Ref.Clone(), at.Add(board.Vec2{X: offset, Y: offset}),
			float64(cfg.Width), float64(cfg.Height))
		el.ID = board.ID(uuid.NewString())
		el.Z = e.nextZ()
		doc = append(doc, el)
		placed = append(placed, el.Clone())
	}
	if len(placed) == 0 {
		return nil
	}
	e.commit(doc)
	return placed
}
