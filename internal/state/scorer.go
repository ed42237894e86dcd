package state

import "math"

const (
	// DefaultMinPoints is the sample floor below which a path scores 0.
	DefaultMinPoints = 10
	// DefaultMaxDeviation is the mean radius deviation, in pixels, that maps to a score of 0.
	DefaultMaxDeviation = 100.0
)

// Scorer grades how circular a path is around a fixed center.
//
// The metric is the mean absolute deviation of each sample's distance to the
// center from the mean of those distances. It is invariant under rotation
// and reversal of the path. It does not check that the path is closed or that
// it winds around the center in one direction.
type Scorer struct {
	MinPoints    int
	MaxDeviation float64
}

func DefaultScorer() Scorer {
	return Scorer{MinPoints: DefaultMinPoints, MaxDeviation: DefaultMaxDeviation}
}

// Analysis holds the intermediate values of a score computation.
type Analysis struct {
	Samples       int     `json:"samples"`
	MeanRadius    float64 `json:"meanRadius"`
	MeanDeviation float64 `json:"meanDeviation"`
	Score         int     `json:"score"`
}

// Score returns an integer in [0,100].
func (s Scorer) Score(points []Point, center Point) int {
	return s.Analyze(points, center).Score
}

func (s Scorer) Analyze(points []Point, center Point) Analysis {
	a := Analysis{Samples: len(points)}
	if len(points) < s.minPoints() {
		return a
	}

	dists := make([]float64, len(points))
	var sum float64
	for i, p := range points {
		dists[i] = p.Dist(center)
		sum += dists[i]
	}
	mean := sum / float64(len(dists))

	var dev float64
	for _, d := range dists {
		dev += math.Abs(d - mean)
	}
	dev /= float64(len(dists))

	a.MeanRadius = mean
	a.MeanDeviation = dev
	a.Score = s.normalize(dev)
	return a
}

func (s Scorer) normalize(dev float64) int {
	raw := 100 - dev/s.maxDeviation()*100
	if math.IsNaN(raw) {
		return 0
	}
	raw = math.Max(0, math.Min(100, raw))
	return int(math.Round(raw))
}

func (s Scorer) minPoints() int {
	if s.MinPoints < 1 {
		return DefaultMinPoints
	}
	return s.MinPoints
}

func (s Scorer) maxDeviation() float64 {
	if s.MaxDeviation <= 0 {
		return DefaultMaxDeviation
	}
	return s.MaxDeviation
}
