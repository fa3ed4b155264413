// Package script provides the Lisp scripting console for Slate. It wraps
// zygomys in a sandboxed environment; scripts record board operations which
// are applied to the editor only after the whole script evaluates cleanly,
// so a failed or timed-out script never half-mutates the document.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/slate/pkg/editor"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Outcome summarizes what a successfully applied script did.
type Outcome struct {
	Created []string // ids of elements the script created, in creation order
	Applied int      // total operations applied
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Run creates a fresh sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Run evaluates source and, if evaluation succeeds, applies the recorded
// operations to ed.
//
// Return semantics:
//   - On success: returns outcome + nil errors + nil error
//   - On parse/eval failure: returns nil + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
//
// Application happens on the calling goroutine after evaluation completes,
// so a timed-out evaluation goroutine can never touch the editor.
func (e *Engine) Run(source string, ed *editor.Editor) (*Outcome, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		rec, evalErrs, err := e.evaluate(source)
		ch <- evalResult{rec: rec, errors: evalErrs, err: err}
	}()

	rec, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation)
	if err != nil || evalErrs != nil {
		return nil, evalErrs, err
	}
	return rec.apply(ed), nil, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*recording, []EvalError, error) {
	rec := &recording{}

	// Empty source is a valid program that does nothing.
	if strings.TrimSpace(source) == "" {
		return rec, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, rec)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return rec, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers where the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
