package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/chazu/slate/pkg/board"
	"github.com/chazu/slate/pkg/config"
	"github.com/chazu/slate/pkg/editor"
	"github.com/chazu/slate/pkg/export"
	"github.com/chazu/slate/pkg/genimg"
	"github.com/chazu/slate/pkg/raster"
	"github.com/chazu/slate/pkg/script"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// All bindings run on the single Wails call dispatch, matching the editor's
// sequential mutation model; only image generation leaves that stream, and
// its results come back through an event.
type App struct {
	ctx    context.Context
	cfg    config.Config
	editor *editor.Editor
	script *script.Engine
	gen    genimg.Client

	// drawing is the open raster session, nil when none.
	drawing *drawingSession
}

type drawingSession struct {
	id  board.ID
	buf *raster.Buffer
}

// NewApp creates a new App around a fresh empty board.
func NewApp(cfg config.Config) *App {
	return &App{
		cfg:    cfg,
		editor: editor.New(nil),
		script: script.NewEngine(),
		gen: &genimg.HTTPClient{
			Endpoint: cfg.Generate.Endpoint,
			APIKey:   cfg.Generate.APIKey(),
			Timeout:  cfg.Generate.Timeout(),
		},
	}
}

// startup is called by Wails on app startup. The context is saved so runtime
// methods (dialogs, events) can be called later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ---------------------------------------------------------------------------
// Frontend result types
// ---------------------------------------------------------------------------

// BoardState is the full view the frontend renders from.
type BoardState struct {
	Elements []board.Element `json:"elements"`
	Selected []string        `json:"selected"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
	PanX     float64         `json:"panX"`
	PanY     float64         `json:"panY"`
	Zoom     float64         `json:"zoom"`
}

// EvalErrorData is a JSON-serializable script error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is the outcome of a console script run.
type ScriptResult struct {
	Created []string        `json:"created"`
	Applied int             `json:"applied"`
	Errors  []EvalErrorData `json:"errors"`
}

func (a *App) state() BoardState {
	doc := a.editor.Document()
	sel := a.editor.Selection().IDs()
	selected := make([]string, len(sel))
	for i, id := range sel {
		selected[i] = string(id)
	}
	view := a.editor.Viewport()
	return BoardState{
		Elements: doc.RenderOrder(),
		Selected: selected,
		CanUndo:  a.editor.CanUndo(),
		CanRedo:  a.editor.CanRedo(),
		PanX:     view.Pan.X,
		PanY:     view.Pan.Y,
		Zoom:     view.Zoom,
	}
}

// GetState returns the current board state.
func (a *App) GetState() BoardState { return a.state() }

// Palette returns the configured note colors.
func (a *App) Palette() []string { return a.cfg.Canvas.Palette }

// ---------------------------------------------------------------------------
// Element lifecycle
// ---------------------------------------------------------------------------

// CreateNote creates a note element and returns the new state.
func (a *App) CreateNote(text, color string, x, y, w, h float64) BoardState {
	a.editor.Create(board.NewNote(text, color, board.Vec2{X: x, Y: y}, w, h))
	return a.state()
}

// CreateArrow creates an arrow between two world points.
func (a *App) CreateArrow(x1, y1, x2, y2 float64, color string) BoardState {
	a.editor.Create(board.NewArrow(board.Vec2{X: x1, Y: y1}, board.Vec2{X: x2, Y: y2}, color))
	return a.state()
}

// CreateDrawing creates an empty drawing element.
func (a *App) CreateDrawing(x, y, w, h float64) BoardState {
	a.editor.Create(board.NewDrawing(board.Vec2{X: x, Y: y}, w, h))
	return a.state()
}

// UpdateElement replaces an element's state as one undoable step (commit
// true) or as live gesture feedback (commit false).
func (a *App) UpdateElement(el board.Element, commit bool) BoardState {
	var err error
	if commit {
		err = a.editor.Update(el.ID, el, true)
	} else {
		err = a.editor.UpdateLive(el.ID, el)
	}
	if err != nil {
		log.Printf("UpdateElement %s: %v", el.ID, err)
	}
	return a.state()
}

// DeleteSelection removes every selected element.
func (a *App) DeleteSelection() BoardState {
	a.editor.DeleteSelection()
	return a.state()
}

// Undo steps the document back one entry.
func (a *App) Undo() BoardState {
	a.editor.Undo()
	return a.state()
}

// Redo steps the document forward one entry.
func (a *App) Redo() BoardState {
	a.editor.Redo()
	return a.state()
}

// BringToFront raises the selection above everything else.
func (a *App) BringToFront() BoardState {
	a.editor.ReorderSelection(editor.ToFront)
	return a.state()
}

// SendToBack lowers the selection below everything else.
func (a *App) SendToBack() BoardState {
	a.editor.ReorderSelection(editor.ToBack)
	return a.state()
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// SelectOne handles a click on an element.
func (a *App) SelectOne(id string, additive bool) BoardState {
	a.editor.Selection().SelectOne(board.ID(id), additive)
	return a.state()
}

// SelectMarquee handles a completed marquee over the given elements.
func (a *App) SelectMarquee(ids []string, additive bool) BoardState {
	bids := make([]board.ID, len(ids))
	for i, id := range ids {
		bids[i] = board.ID(id)
	}
	a.editor.Selection().SelectMarquee(bids, additive)
	return a.state()
}

// TargetElement handles a context-menu click: the element joins the
// selection only if it is not already part of it.
func (a *App) TargetElement(id string) BoardState {
	a.editor.Selection().Target(board.ID(id))
	return a.state()
}

// ClearSelection empties the selection.
func (a *App) ClearSelection() BoardState {
	a.editor.Selection().Clear()
	return a.state()
}

// ---------------------------------------------------------------------------
// Drag gestures
// ---------------------------------------------------------------------------

// BeginDrag starts a drag gesture on the given element.
func (a *App) BeginDrag(id string) BoardState {
	if err := a.editor.BeginDrag(board.ID(id)); err != nil {
		log.Printf("BeginDrag %s: %v", id, err)
	}
	return a.state()
}

// DragTo applies the dragged element's resolved live state; co-selected
// elements follow by position delta.
func (a *App) DragTo(el board.Element) BoardState {
	if err := a.editor.DragTo(el); err != nil {
		log.Printf("DragTo %s: %v", el.ID, err)
	}
	return a.state()
}

// EndDrag commits the whole gesture as one undoable step.
func (a *App) EndDrag() BoardState {
	a.editor.EndDrag()
	return a.state()
}

// CancelGesture abandons the gesture and restores the pre-gesture document.
func (a *App) CancelGesture() BoardState {
	a.editor.CancelGesture()
	return a.state()
}

// ---------------------------------------------------------------------------
// Viewport
// ---------------------------------------------------------------------------

// Pan shifts the viewport by a screen-space delta.
func (a *App) Pan(dx, dy float64) BoardState {
	a.editor.Viewport().PanBy(board.Vec2{X: dx, Y: dy})
	return a.state()
}

// ZoomAt scales the viewport around a screen-space cursor position.
func (a *App) ZoomAt(x, y, factor float64) BoardState {
	a.editor.Viewport().ZoomAt(board.Vec2{X: x, Y: y}, factor)
	return a.state()
}

// ---------------------------------------------------------------------------
// Import / export
// ---------------------------------------------------------------------------

// ImportBoard asks for a board file and replaces the document with it.
// Returns an error message for the user, empty on success.
func (a *App) ImportBoard() string {
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Open board",
		Filters: []runtime.FileFilter{{DisplayName: "Board JSON", Pattern: "*.json"}},
	})
	if err != nil || path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("ImportBoard read %s: %v", path, err)
		return err.Error()
	}
	if err := a.editor.ImportJSON(data); err != nil {
		log.Printf("ImportBoard %s: %v", path, err)
		return err.Error()
	}
	return ""
}

// ExportBoard asks for a destination and writes the document as JSON.
func (a *App) ExportBoard() string {
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save board",
		DefaultFilename: "board.json",
	})
	if err != nil || path == "" {
		return ""
	}
	data, err := a.editor.ExportJSON()
	if err != nil {
		log.Printf("ExportBoard: %v", err)
		return err.Error()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("ExportBoard write %s: %v", path, err)
		return err.Error()
	}
	return ""
}

// ExportPDF asks for a destination and renders the board to PDF.
func (a *App) ExportPDF() string {
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export PDF",
		DefaultFilename: "board.pdf",
	})
	if err != nil || path == "" {
		return ""
	}
	if err := export.PDFFile(path, a.editor.Document()); err != nil {
		log.Printf("ExportPDF %s: %v", path, err)
		return err.Error()
	}
	return ""
}

// PlaceImageFiles loads the given files and places each successfully decoded
// one as an image element, cascaded from the drop point, in one undoable
// step. Unreadable files are dropped from the batch.
func (a *App) PlaceImageFiles(x, y float64, paths []string) BoardState {
	loads := make([]editor.ImageLoad, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Printf("PlaceImageFiles read %s: %v", p, err)
			loads = append(loads, editor.ImageLoad{Err: err})
			continue
		}
		loads = append(loads, editor.ImageLoad{
			Ref: board.BitmapRef{Mime: mimeForPath(p), Bytes: data},
		})
	}
	a.editor.PlaceImages(board.Vec2{X: x, Y: y}, loads)
	return a.state()
}

func mimeForPath(path string) string {
	switch filepath.Ext(path) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}

// ---------------------------------------------------------------------------
// Drawing sessions
// ---------------------------------------------------------------------------

// OpenDrawing starts a raster editing session on a drawing element. Any
// previous session is discarded.
func (a *App) OpenDrawing(id string) string {
	el, ok := a.editor.Document().Get(board.ID(id))
	if !ok || el.Kind != board.KindDrawing {
		return "no drawing element " + id
	}
	payload := el.Data.(board.DrawingData).Bitmap
	buf, err := raster.Open(a.cfg.Canvas.DrawingWidth, a.cfg.Canvas.DrawingHeight,
		a.cfg.Canvas.Background, payload)
	if err != nil {
		log.Printf("OpenDrawing %s: %v", id, err)
		return err.Error()
	}
	a.drawing = &drawingSession{id: el.ID, buf: buf}
	return ""
}

// DrawBegin starts a stroke in the open session.
func (a *App) DrawBegin(tool string, color string, width, x, y float64) {
	if a.drawing == nil {
		return
	}
	t := raster.ToolPencil
	if tool == "eraser" {
		t = raster.ToolEraser
	}
	a.drawing.buf.BeginStroke(t, color, width, board.Vec2{X: x, Y: y})
}

// DrawTo extends the active stroke.
func (a *App) DrawTo(x, y float64) {
	if a.drawing == nil {
		return
	}
	if err := a.drawing.buf.StrokeTo(board.Vec2{X: x, Y: y}); err != nil {
		log.Printf("DrawTo: %v", err)
	}
}

// DrawEnd finishes the active stroke as one raster history entry.
func (a *App) DrawEnd() {
	if a.drawing != nil {
		a.drawing.buf.EndStroke()
	}
}

// DrawUndo steps the raster surface back one stroke.
func (a *App) DrawUndo() {
	if a.drawing != nil {
		a.drawing.buf.Undo()
	}
}

// DrawRedo steps the raster surface forward one stroke.
func (a *App) DrawRedo() {
	if a.drawing != nil {
		a.drawing.buf.Redo()
	}
}

// DrawClear blanks the surface as an undoable raster entry.
func (a *App) DrawClear() {
	if a.drawing != nil {
		a.drawing.buf.Clear()
	}
}

// DrawSnapshot returns the current surface as a PNG payload for display.
func (a *App) DrawSnapshot() board.BitmapRef {
	if a.drawing == nil {
		return board.BitmapRef{}
	}
	ref, err := a.drawing.buf.Encode()
	if err != nil {
		log.Printf("DrawSnapshot: %v", err)
		return board.BitmapRef{}
	}
	return ref
}

// SaveDrawing encodes the surface, hands it back to the drawing element as
// exactly one committed document update, and closes the session. Raster
// history is discarded with the session.
func (a *App) SaveDrawing() BoardState {
	if a.drawing == nil {
		return a.state()
	}
	sess := a.drawing
	a.drawing = nil

	ref, err := sess.buf.Encode()
	if err != nil {
		log.Printf("SaveDrawing: %v", err)
		return a.state()
	}
	el, ok := a.editor.Document().Get(sess.id)
	if !ok {
		log.Printf("SaveDrawing: element %s no longer exists", sess.id)
		return a.state()
	}
	el.Data = board.DrawingData{Bitmap: ref}
	if err := a.editor.Update(el.ID, el, true); err != nil {
		log.Printf("SaveDrawing: %v", err)
	}
	return a.state()
}

// CancelDrawing closes the session without touching the document.
func (a *App) CancelDrawing() {
	a.drawing = nil
}

// ---------------------------------------------------------------------------
// Image generation
// ---------------------------------------------------------------------------

// Generate builds a request from the current selection and runs it in the
// background; the user keeps editing meanwhile. Candidates (or the failure)
// arrive on the "generate:done" / "generate:error" events, and nothing is
// committed until the frontend explicitly places a candidate.
func (a *App) Generate() {
	sel := a.editor.Selection().IDs()
	doc := a.editor.Document()
	selected := make([]board.Element, 0, len(sel))
	for _, id := range sel {
		if el, ok := doc.Get(id); ok {
			selected = append(selected, el)
		}
	}
	req := genimg.BuildRequest(selected, a.cfg.Generate.StyleSuffix)

	go func() {
		images, err := a.gen.Generate(context.Background(), req)
		if err != nil {
			log.Printf("Generate: %v", err)
			runtime.EventsEmit(a.ctx, "generate:error", err.Error())
			return
		}
		runtime.EventsEmit(a.ctx, "generate:done", images)
	}()
}

// PlaceGenerated commits accepted candidates as image elements in one
// batched step.
func (a *App) PlaceGenerated(x, y float64, images []board.BitmapRef) BoardState {
	loads := make([]editor.ImageLoad, len(images))
	for i, ref := range images {
		loads[i] = editor.ImageLoad{Ref: ref}
	}
	a.editor.PlaceImages(board.Vec2{X: x, Y: y}, loads)
	return a.state()
}

// ---------------------------------------------------------------------------
// Scripting console
// ---------------------------------------------------------------------------

// RunScript evaluates console source against the board.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Created: []string{}, Errors: []EvalErrorData{}}

	out, evalErrs, err := a.script.Run(source, a.editor)
	if err != nil {
		log.Printf("RunScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	result.Created = append(result.Created, out.Created...)
	result.Applied = out.Applied
	return result
}
