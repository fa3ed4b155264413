package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/editor"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: to-front -> to_front
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. ; line comments become // comments, which is what zygomys expects.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a board.Vec2.
type sexpVec2 struct {
	vec board.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.1f %.1f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpElemRef refers to a board element: either one created earlier in the
// same script (by recording index, since the real id does not exist until
// the recording is applied) or an existing element named by id.
type sexpElemRef struct {
	ref elemRef
}

func (r *sexpElemRef) SexpString(ps *zygo.PrintState) string {
	if r.ref.id != "" {
		return fmt.Sprintf("(elem %q)", r.ref.id)
	}
	return fmt.Sprintf("(elem #%d)", r.ref.placeholder)
}
func (r *sexpElemRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a Vec2 from a sexpVec2.
func toVec2(s zygo.Sexp) (board.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return board.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toElemRef accepts either an element reference returned by a creating
// builtin or a plain string naming an existing element id.
func toElemRef(s zygo.Sexp) (elemRef, error) {
	switch v := s.(type) {
	case *sexpElemRef:
		return v.ref, nil
	case *zygo.SexpStr:
		if strings.HasPrefix(v.S, kwPrefix) {
			break
		}
		return elemRef{placeholder: -1, id: board.ID(v.S)}, nil
	}
	return elemRef{}, fmt.Errorf("expected element reference or id string, got %T (%s)",
		s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// refArgs converts all remaining args to element references.
func refArgs(args []zygo.Sexp, builtin string) ([]elemRef, error) {
	refs := make([]elemRef, 0, len(args))
	for i, a := range args {
		ref, err := toElemRef(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", builtin, i+1, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the board builtins into a zygomys environment.
// The builtins append operations to rec; nothing touches the editor until
// the recording is applied after a clean evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, rec *recording) {

	// -----------------------------------------------------------------------
	// (vec2 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: board.Vec2{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (note "text" :at (vec2 10 10) :size (vec2 160 100) :color "#ffd966"
	//       :align "center")
	// -----------------------------------------------------------------------
	env.AddFunction("note", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("note requires a text argument")
		}
		text, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("note: text: %w", err)
		}

		at := board.Vec2{}
		size := board.Vec2{X: 160, Y: 100}
		color, align := "", ""

		if v, ok := pa.kw["at"]; ok {
			if at, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("note: at: %w", err)
			}
		}
		if v, ok := pa.kw["size"]; ok {
			if size, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("note: size: %w", err)
			}
		}
		if v, ok := pa.kw["color"]; ok {
			if color, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("note: color: %w", err)
			}
		}
		if v, ok := pa.kw["align"]; ok {
			if align, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("note: align: %w", err)
			}
		}

		el := board.NewNote(text, color, at, size.X, size.Y)
		if align != "" {
			data := el.Data.(board.NoteData)
			data.Align = align
			el.Data = data
		}
		return &sexpElemRef{ref: rec.recordCreate(el)}, nil
	})

	// -----------------------------------------------------------------------
	// (arrow :from (vec2 0 0) :to (vec2 100 50) :color "#333333")
	// -----------------------------------------------------------------------
	env.AddFunction("arrow", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var from, to board.Vec2
		var color string
		var err error

		if v, ok := pa.kw["from"]; ok {
			if from, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("arrow: from: %w", err)
			}
		}
		if v, ok := pa.kw["to"]; ok {
			if to, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("arrow: to: %w", err)
			}
		}
		if v, ok := pa.kw["color"]; ok {
			if color, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("arrow: color: %w", err)
			}
		}

		return &sexpElemRef{ref: rec.recordCreate(board.NewArrow(from, to, color))}, nil
	})

	// -----------------------------------------------------------------------
	// (drawing :at (vec2 10 10) :size (vec2 400 300))
	// -----------------------------------------------------------------------
	env.AddFunction("drawing", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		at := board.Vec2{}
		size := board.Vec2{X: 320, Y: 240}
		var err error

		if v, ok := pa.kw["at"]; ok {
			if at, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drawing: at: %w", err)
			}
		}
		if v, ok := pa.kw["size"]; ok {
			if size, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drawing: size: %w", err)
			}
		}

		return &sexpElemRef{ref: rec.recordCreate(board.NewDrawing(at, size.X, size.Y))}, nil
	})

	// -----------------------------------------------------------------------
	// (move elem (vec2 50 0))
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("move requires an element and a delta, got %d arguments", len(args))
		}
		ref, err := toElemRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		delta, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: delta: %w", err)
		}
		rec.record(opMove{ref: ref, delta: delta})
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (select elem... :additive true)
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		additive := false
		if v, ok := pa.kw["additive"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("select: additive: %w", err)
			}
			additive = b
		}
		refs, err := refArgs(pa.positional, "select")
		if err != nil {
			return zygo.SexpNull, err
		}
		rec.record(opSelect{refs: refs, additive: additive})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (to-front elem...) / (to-back elem...)
	//
	// Registered with underscores; the preprocessor converts the hyphenated
	// forms in source.
	// -----------------------------------------------------------------------
	env.AddFunction("to_front", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		refs, err := refArgs(args, "to-front")
		if err != nil {
			return zygo.SexpNull, err
		}
		rec.record(opReorder{refs: refs, dir: editor.ToFront})
		return zygo.SexpNull, nil
	})
	env.AddFunction("to_back", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		refs, err := refArgs(args, "to-back")
		if err != nil {
			return zygo.SexpNull, err
		}
		rec.record(opReorder{refs: refs, dir: editor.ToBack})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (delete elem...)
	// -----------------------------------------------------------------------
	env.AddFunction("delete", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		refs, err := refArgs(args, "delete")
		if err != nil {
			return zygo.SexpNull, err
		}
		rec.record(opDelete{refs: refs})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (undo) / (redo)
	// -----------------------------------------------------------------------
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		rec.record(opUndo{})
		return zygo.SexpNull, nil
	})
	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		rec.record(opRedo{})
		return zygo.SexpNull, nil
	})
}
