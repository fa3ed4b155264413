// Package genimg builds requests for the generative-image collaborator from
// selected board elements and defines the client contract for running them.
// Commit decisions stay with the caller: a failed or partial response never
// touches the document.
package genimg

import (
	"context"
	"strings"

	"github.com/chazu/slate/pkg/board"
)

// Mode distinguishes generating fresh images from editing existing ones.
type Mode int

const (
	// ModeCreate produces new images from the instruction alone.
	ModeCreate Mode = iota
	// ModeEdit produces variants of the input images guided by the instruction.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Request is one generation call derived from a selection.
type Request struct {
	Mode        Mode
	Instruction string
	Inputs      []board.BitmapRef
}

// Client runs generation requests against a backing service. Implementations
// return zero or more candidate images; an error means no candidates at all.
type Client interface {
	Generate(ctx context.Context, req Request) ([]board.BitmapRef, error)
}

// BuildRequest derives a request from the selected elements: note texts are
// joined into the instruction (with the optional style suffix appended), and
// any image or drawing payloads become edit inputs. With no bitmap inputs the
// request is a create; with at least one it is an edit.
func BuildRequest(selected []board.Element, styleSuffix string) Request {
	var parts []string
	var inputs []board.BitmapRef
	for _, el := range selected {
		switch data := el.Data.(type) {
		case board.NoteData:
			if text := strings.TrimSpace(data.Text); text != "" {
				parts = append(parts, text)
			}
		case board.ImageData:
			if !data.Bitmap.Empty() {
				inputs = append(inputs, data.Bitmap.Clone())
			}
		case board.DrawingData:
			if !data.Bitmap.Empty() {
				inputs = append(inputs, data.Bitmap.Clone())
			}
		}
	}
	instruction := strings.Join(parts, "\n")
	if styleSuffix != "" && instruction != "" {
		instruction += "\n" + styleSuffix
	}

	req := Request{Mode: ModeCreate, Instruction: instruction, Inputs: inputs}
	if len(inputs) > 0 {
		req.Mode = ModeEdit
	}
	return req
}
