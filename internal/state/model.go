package state

import (
	"fmt"
	"math"
)

// Feedback messages shown above the canvas.
const (
	MsgPrompt  = "Draw a circle around the red dot!"
	MsgDrawing = "Drawing..."
)

// Point is a pointer sample in canvas-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Session is one drag-to-draw interaction, from pointer-down to pointer-up.
type Session struct {
	ID     string
	Seq    uint64
	Active bool
	Points []Point
}

// Snapshot is a copy of everything a host needs to render the game.
type Snapshot struct {
	Center    Point   `json:"center"`
	Points    []Point `json:"points"`
	Active    bool    `json:"active"`
	SessionID string  `json:"sessionId,omitempty"`
	Seq       uint64  `json:"seq"`
	Score     int     `json:"score"`
	Best      int     `json:"best"`
	Feedback  string  `json:"feedback"`
}

func (s Snapshot) ScoreText() string {
	return fmt.Sprintf("Score: %d", s.Score)
}

func (s Snapshot) BestText() string {
	return fmt.Sprintf("Best: %d", s.Best)
}

func resultMessage(score int) string {
	return fmt.Sprintf("Your circle perfection: %d%%", score)
}
