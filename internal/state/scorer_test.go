package state

import (
	"math"
	"testing"
)

var center = Point{X: 250, Y: 250}

func circle(c Point, r float64, n int, phase float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// wobbly is a circle whose radius alternates between r-w and r+w.
func wobbly(c Point, r, w float64, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		rr := r + w
		if i%2 == 1 {
			rr = r - w
		}
		pts[i] = Point{X: c.X + rr*math.Cos(a), Y: c.Y + rr*math.Sin(a)}
	}
	return pts
}

func TestScoreBelowSampleFloorIsZero(t *testing.T) {
	s := DefaultScorer()
	for n := 0; n < DefaultMinPoints; n++ {
		if got := s.Score(circle(center, 100, n, 0), center); got != 0 {
			t.Fatalf("score with %d points: got %d, want 0", n, got)
		}
	}
}

func TestScorePerfectCircle(t *testing.T) {
	s := DefaultScorer()
	for _, n := range []int{10, 36, 360} {
		if got := s.Score(circle(center, 120, n, 0), center); got != 100 {
			t.Fatalf("perfect circle with %d points: got %d, want 100", n, got)
		}
	}
}

func TestScoreKnownDeviation(t *testing.T) {
	s := DefaultScorer()
	// radii alternate 90/110 so every sample deviates 10px from the mean.
	if got := s.Score(wobbly(center, 100, 10, 40), center); got != 90 {
		t.Fatalf("got %d, want 90", got)
	}

	s.MaxDeviation = 50
	if got := s.Score(wobbly(center, 100, 10, 40), center); got != 80 {
		t.Fatalf("with K=50 got %d, want 80", got)
	}
}

func TestScoreInvariantUnderRotationAndReversal(t *testing.T) {
	s := DefaultScorer()
	pts := wobbly(center, 100, 13, 48)
	want := s.Score(pts, center)

	for _, angle := range []float64{0.3, math.Pi / 2, 2.5} {
		rot := make([]Point, len(pts))
		sin, cos := math.Sincos(angle)
		for i, p := range pts {
			dx, dy := p.X-center.X, p.Y-center.Y
			rot[i] = Point{X: center.X + dx*cos - dy*sin, Y: center.Y + dx*sin + dy*cos}
		}
		if got := s.Score(rot, center); got != want {
			t.Fatalf("rotated by %.2f: got %d, want %d", angle, got, want)
		}
	}

	rev := make([]Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	if got := s.Score(rev, center); got != want {
		t.Fatalf("reversed: got %d, want %d", got, want)
	}
}

func TestScoreSquarePathIsLow(t *testing.T) {
	// Corners far out, edge midpoints hugging the center.
	var pts []Point
	for i := 0; i < 5; i++ {
		pts = append(pts,
			Point{X: center.X - 240, Y: center.Y - 240},
			Point{X: center.X, Y: center.Y - 5},
			Point{X: center.X + 240, Y: center.Y + 240},
			Point{X: center.X + 5, Y: center.Y},
		)
	}
	if got := DefaultScorer().Score(pts, center); got > 5 {
		t.Fatalf("square-ish path scored %d, want near 0", got)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	s := DefaultScorer()
	inputs := [][]Point{
		circle(center, 0, 12, 0),
		wobbly(center, 1000, 900, 20),
		wobbly(center, 10, 10, 11),
		append(circle(center, 50, 10, 0), Point{X: math.Inf(1), Y: 0}),
		append(circle(center, 50, 10, 0), Point{X: math.NaN(), Y: 3}),
	}
	for i, pts := range inputs {
		got := s.Score(pts, center)
		if got < 0 || got > 100 {
			t.Fatalf("input %d: score %d out of range", i, got)
		}
	}
}

func TestAnalyzeReportsRadius(t *testing.T) {
	a := DefaultScorer().Analyze(wobbly(center, 100, 10, 40), center)
	if a.Samples != 40 {
		t.Fatalf("samples: got %d", a.Samples)
	}
	if math.Abs(a.MeanRadius-100) > 1e-9 {
		t.Fatalf("mean radius: got %f, want 100", a.MeanRadius)
	}
	if math.Abs(a.MeanDeviation-10) > 1e-9 {
		t.Fatalf("mean deviation: got %f, want 10", a.MeanDeviation)
	}
}

func TestZeroScorerUsesDefaults(t *testing.T) {
	var s Scorer
	if got := s.Score(wobbly(center, 100, 10, 40), center); got != 90 {
		t.Fatalf("got %d, want 90", got)
	}
	if got := s.Score(circle(center, 100, 9, 0), center); got != 0 {
		t.Fatalf("got %d, want 0 under default floor", got)
	}
}
