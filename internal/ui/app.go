package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"PerfectCircle/internal/config"
	"PerfectCircle/internal/export"
	"PerfectCircle/internal/state"
)

// GameView ties a tracker to the drawing surface and the three text surfaces.
type GameView struct {
	Board    *CircleWidget
	Feedback *widget.Label
	Score    *widget.Label
	Best     *widget.Label
	Status   *widget.Label

	tracker *state.Tracker
	cfg     config.Config
}

func NewGameView(tracker *state.Tracker, cfg config.Config) *GameView {
	g := &GameView{
		Board:    NewCircleWidget(tracker, cfg),
		Feedback: widget.NewLabel(""),
		Score:    widget.NewLabel(""),
		Best:     widget.NewLabel(""),
		Status:   widget.NewLabel(""),
		tracker:  tracker,
		cfg:      cfg,
	}
	g.Feedback.Alignment = fyne.TextAlignCenter
	g.Feedback.TextStyle = fyne.TextStyle{Bold: true}
	tracker.OnChange = g.apply
	g.apply(tracker.Snapshot())
	return g
}

func (g *GameView) apply(s state.Snapshot) {
	g.Board.Apply(s)
	g.Feedback.SetText(s.Feedback)
	g.Score.SetText(s.ScoreText())
	g.Best.SetText(s.BestText())
}

// Reset is bound to the reset button.
func (g *GameView) Reset() {
	g.tracker.Reset()
	g.Status.SetText("")
}

func (g *GameView) drawing() export.Drawing {
	return export.Capture(g.tracker, export.Canvas{
		Width:        g.cfg.CanvasWidth,
		Height:       g.cfg.CanvasHeight,
		CenterRadius: g.cfg.CenterRadius,
		StrokeWidth:  g.cfg.StrokeWidth,
	})
}

// SaveToFile writes the current drawing as a PDF and closes the writer.
func (g *GameView) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("[UI] Error closing writer: %v", err)
		}
	}()

	d := g.drawing()
	if err := export.WritePDF(writer, d); err != nil {
		log.Printf("[UI] Export failed: %v", err)
		g.Status.SetText("Error saving file")
		return
	}
	log.Printf("[UI] Exported %s (%d points)", writer.URI().Name(), len(d.Snapshot.Points))
	g.Status.SetText(fmt.Sprintf("Saved %s", writer.URI().Name()))
}

func (g *GameView) Content(w fyne.Window) fyne.CanvasObject {
	top := container.NewVBox(g.Feedback)
	bottom := container.NewVBox(NewToolbar(g, w), g.Status)
	return container.NewBorder(top, bottom, nil, nil, container.NewCenter(g.Board))
}

func RunApp(cfg config.Config) {
	myApp := app.New()
	myWindow := myApp.NewWindow("Perfect Circle")

	game := NewGameView(cfg.NewTracker(), cfg)
	myWindow.SetContent(game.Content(myWindow))
	myWindow.Resize(fyne.NewSize(float32(cfg.CanvasWidth)+80, float32(cfg.CanvasHeight)+160))
	log.Printf("[UI] Window ready, canvas %gx%g, center (%g, %g)",
		cfg.CanvasWidth, cfg.CanvasHeight, cfg.Center().X, cfg.Center().Y)
	myWindow.ShowAndRun()
}
