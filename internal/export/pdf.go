package export

import (
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"PerfectCircle/internal/state"
)

const (
	pageMargin = 15.0
	canvasTop  = 35.0
	maxDrawW   = 180.0
	maxDrawH   = 200.0
)

// Canvas describes the drawing surface the points were sampled on.
type Canvas struct {
	Width        float64
	Height       float64
	CenterRadius float64
	StrokeWidth  float64
}

// Drawing is what gets exported: the rendered state plus the geometry behind its score.
type Drawing struct {
	Canvas
	Snapshot  state.Snapshot
	Analysis  state.Analysis
	CreatedAt time.Time
}

// Capture takes the tracker's current path and scores.
func Capture(tr *state.Tracker, c Canvas) Drawing {
	return Drawing{
		Canvas:    c,
		Snapshot:  tr.Snapshot(),
		Analysis:  tr.Analyze(),
		CreatedAt: time.Now(),
	}
}

// WritePDF renders d onto a single A4 page.
func WritePDF(w io.Writer, d Drawing) error {
	p, err := render(d)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func ExportPDF(path string, d Drawing) error {
	p, err := render(d)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	log.Printf("[EXPORT] Wrote %s (%d points, score %d)", path, len(d.Snapshot.Points), d.Snapshot.Score)
	return nil
}

func render(d Drawing) (*gofpdf.Fpdf, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("export: canvas size must be positive, got %gx%g", d.Width, d.Height)
	}
	scale := math.Min(maxDrawW/d.Width, maxDrawH/d.Height)
	toPage := func(pt state.Point) (float64, float64) {
		return pageMargin + pt.X*scale, canvasTop + pt.Y*scale
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Perfect Circle", true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.Text(pageMargin, 22, "Perfect Circle")
	if !d.CreatedAt.IsZero() {
		p.SetFont("Helvetica", "", 9)
		p.Text(pageMargin, 28, d.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	p.SetFillColor(17, 17, 17)
	p.Rect(pageMargin, canvasTop, d.Width*scale, d.Height*scale, "F")

	p.SetFillColor(255, 0, 0)
	cx, cy := toPage(d.Snapshot.Center)
	p.Circle(cx, cy, d.CenterRadius*scale, "F")

	if pts := d.Snapshot.Points; len(pts) > 0 {
		p.SetDrawColor(255, 255, 255)
		p.SetLineWidth(math.Max(d.StrokeWidth*scale, 0.2))
		p.SetLineCapStyle("round")
		p.SetLineJoinStyle("round")
		x, y := toPage(pts[0])
		p.MoveTo(x, y)
		for _, pt := range pts[1:] {
			x, y = toPage(pt)
			p.LineTo(x, y)
		}
		p.DrawPath("D")
	}

	p.SetTextColor(0, 0, 0)
	textY := canvasTop + d.Height*scale + 12
	p.SetFont("Helvetica", "B", 14)
	p.Text(pageMargin, textY, d.Snapshot.Feedback)
	p.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("%s   %s", d.Snapshot.ScoreText(), d.Snapshot.BestText()),
		fmt.Sprintf("Samples: %d", d.Analysis.Samples),
		fmt.Sprintf("Mean radius: %.1f px", d.Analysis.MeanRadius),
		fmt.Sprintf("Mean deviation: %.2f px", d.Analysis.MeanDeviation),
	}
	for i, line := range lines {
		p.Text(pageMargin, textY+8+float64(i)*6, line)
	}

	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return p, nil
}
