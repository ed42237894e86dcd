package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PerfectCircle/internal/config"
	"PerfectCircle/internal/state"
)

var (
	backgroundColor = color.NRGBA{R: 17, G: 17, B: 17, A: 255}
	markerColor     = color.NRGBA{R: 255, A: 255}
	pathColor       = color.White
)

// CircleWidget is the drawing surface. Pointer events go to the tracker;
// the widget only draws the last snapshot it was given.
type CircleWidget struct {
	widget.BaseWidget
	tracker      *state.Tracker
	mu           sync.RWMutex
	snap         state.Snapshot
	size         fyne.Size
	markerRadius float32
	strokeWidth  float32
}

var _ fyne.Widget = (*CircleWidget)(nil)
var _ fyne.Draggable = (*CircleWidget)(nil)
var _ desktop.Mouseable = (*CircleWidget)(nil)
var _ desktop.Hoverable = (*CircleWidget)(nil)

func NewCircleWidget(tracker *state.Tracker, cfg config.Config) *CircleWidget {
	c := &CircleWidget{
		tracker:      tracker,
		snap:         tracker.Snapshot(),
		size:         fyne.NewSize(float32(cfg.CanvasWidth), float32(cfg.CanvasHeight)),
		markerRadius: float32(cfg.CenterRadius),
		strokeWidth:  float32(cfg.StrokeWidth),
	}
	c.ExtendBaseWidget(c)
	return c
}

// Apply stores a new snapshot and redraws.
func (c *CircleWidget) Apply(s state.Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
	c.Refresh()
}

func (c *CircleWidget) snapshot() state.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (c *CircleWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.tracker.BeginSession(toPoint(e.Position))
	}
}

func (c *CircleWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.tracker.EndSession()
	}
}

func (c *CircleWidget) Dragged(e *fyne.DragEvent) {
	c.tracker.ExtendSession(toPoint(e.Position))
}

// DragEnd also ends the session: fyne may deliver the release here instead
// of MouseUp when the pointer leaves the widget. A second end is a no-op.
func (c *CircleWidget) DragEnd() {
	c.tracker.EndSession()
}

func (c *CircleWidget) MouseMoved(e *desktop.MouseEvent) {
	c.tracker.ExtendSession(toPoint(e.Position))
}

func (c *CircleWidget) MouseIn(*desktop.MouseEvent) {}
func (c *CircleWidget) MouseOut()                   {}

func (c *CircleWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &circleWidgetRenderer{
		widget:     c,
		background: canvas.NewRectangle(backgroundColor),
		marker:     canvas.NewCircle(markerColor),
	}
	r.rebuild()
	return r
}

type circleWidgetRenderer struct {
	widget     *CircleWidget
	background *canvas.Rectangle
	marker     *canvas.Circle
	objects    []fyne.CanvasObject
}

// rebuild clears the surface, places the center marker and adds one line
// segment per consecutive pair of points.
func (r *circleWidgetRenderer) rebuild() {
	snap := r.widget.snapshot()

	rad := r.widget.markerRadius
	r.marker.Move(fyne.NewPos(float32(snap.Center.X)-rad, float32(snap.Center.Y)-rad))
	r.marker.Resize(fyne.NewSize(2*rad, 2*rad))

	objects := make([]fyne.CanvasObject, 0, 2+len(snap.Points))
	objects = append(objects, r.background, r.marker)
	for i := 1; i < len(snap.Points); i++ {
		segment := canvas.NewLine(pathColor)
		segment.StrokeWidth = r.widget.strokeWidth
		segment.Position1 = fyne.NewPos(float32(snap.Points[i-1].X), float32(snap.Points[i-1].Y))
		segment.Position2 = fyne.NewPos(float32(snap.Points[i].X), float32(snap.Points[i].Y))
		objects = append(objects, segment)
	}
	r.objects = objects
}

func (r *circleWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *circleWidgetRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.widget)
}

func (r *circleWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *circleWidgetRenderer) MinSize() fyne.Size {
	return r.widget.size
}

func (r *circleWidgetRenderer) Destroy() {}
