package editor

import (
	"fmt"

	"github.com/chazu/slate/pkg/board"
)

// ExportJSON serializes the current document with no normalization; z values
// are exported as-is.
func (e *Editor) ExportJSON() ([]byte, error) {
	return board.EncodeJSON(e.hist.Current())
}

// ImportJSON replaces the document with the decoded input in a single
// commit. The z counter advances past the imported maximum (records without
// z default to 0), so future creations never collide. Malformed or invalid
// input is rejected without mutating the document.
func (e *Editor) ImportJSON(data []byte) error {
	doc, err := board.DecodeJSON(data)
	if err != nil {
		return err
	}
	findings := board.Validate(doc)
	if board.HasErrors(findings) {
		return fmt.Errorf("board import: %w", firstError(findings))
	}
	e.bumpZ(doc.MaxZ())
	e.commit(doc)
	return nil
}

func firstError(findings []board.ValidationError) error {
	for _, f := range findings {
		if f.Severity == board.SeverityError {
			return f
		}
	}
	return fmt.Errorf("invalid document")
}
