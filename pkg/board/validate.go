package board

import (
	"fmt"
	"math"
)

// Severity indicates whether a validation finding blocks acceptance of a
// document or is merely advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks acceptance
	SeverityWarning                 // advisory
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	ID       ID // which element has the problem (zero if document-level)
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.ID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] element %s: %s", e.Severity, e.ID, e.Message)
}

// Validate runs structural checks on a document and returns all findings.
// It is read-only and never mutates the document. Errors are invariant
// breaches (duplicate or missing ids); warnings flag suspect but importable
// state such as arrow attributes that disagree with their endpoints.
func Validate(d Document) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIDs(d)...)
	errs = append(errs, validateArrows(d)...)
	return errs
}

// HasErrors reports whether any finding is blocking.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateIDs(d Document) []ValidationError {
	var errs []ValidationError
	seen := make(map[ID]bool, len(d))
	for _, e := range d {
		if e.ID.IsZero() {
			errs = append(errs, ValidationError{
				Message:  "element has no identifier",
				Severity: SeverityError,
			})
			continue
		}
		if seen[e.ID] {
			errs = append(errs, ValidationError{
				ID:       e.ID,
				Message:  "duplicate element id",
				Severity: SeverityError,
			})
		}
		seen[e.ID] = true
	}
	return errs
}

// arrowTolerance absorbs float noise when comparing derived arrow fields.
const arrowTolerance = 1e-6

func validateArrows(d Document) []ValidationError {
	var errs []ValidationError
	for _, e := range d {
		a, ok := e.Data.(ArrowData)
		if !ok {
			continue
		}
		want := NewArrow(a.Start, a.End, a.Color)
		if math.Abs(want.W-e.W) > arrowTolerance ||
			math.Abs(want.Pos.X-e.Pos.X) > arrowTolerance ||
			math.Abs(want.Pos.Y-e.Pos.Y) > arrowTolerance {
			errs = append(errs, ValidationError{
				ID:       e.ID,
				Message:  "arrow attributes disagree with its endpoints",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
