package state

import (
	"log"
	"sync"
)

// Tracker owns the drawing session and the best score of one player.
//
// Hosts translate their pointer events into BeginSession, ExtendSession and
// EndSession calls and redraw from the Snapshot passed to OnChange.
type Tracker struct {
	mu       sync.Mutex
	center   Point
	scorer   Scorer
	clock    *sessionClock
	session  Session
	score    int
	best     int
	feedback string

	// OnChange is called after every state transition, outside the lock.
	// Set it before the tracker receives events.
	OnChange func(Snapshot)
}

func NewTracker(center Point, scorer Scorer) *Tracker {
	return &Tracker{
		center:   center,
		scorer:   scorer,
		clock:    newSessionClock(),
		feedback: MsgPrompt,
	}
}

func (t *Tracker) Center() Point {
	return t.center
}

func (t *Tracker) Scorer() Scorer {
	return t.scorer
}

// BeginSession discards the previous path and starts a new one at pos.
func (t *Tracker) BeginSession(pos Point) {
	t.mu.Lock()
	id, seq := t.clock.next()
	t.session = Session{ID: id, Seq: seq, Active: true, Points: []Point{pos}}
	t.feedback = MsgDrawing
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// ExtendSession appends pos to the active path. Moves outside of a drag
// are ignored and reported as false.
func (t *Tracker) ExtendSession(pos Point) bool {
	t.mu.Lock()
	if !t.session.Active {
		t.mu.Unlock()
		return false
	}
	t.session.Points = append(t.session.Points, pos)
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
	return true
}

// EndSession freezes the active path, scores it and raises the best score
// if it was beaten. Without an active session nothing changes and the
// current score is returned with ok set to false.
func (t *Tracker) EndSession() (score int, ok bool) {
	t.mu.Lock()
	if !t.session.Active {
		score = t.score
		t.mu.Unlock()
		return score, false
	}
	t.session.Active = false
	a := t.scorer.Analyze(t.session.Points, t.center)
	t.score = a.Score
	if a.Score > t.best {
		t.best = a.Score
	}
	t.feedback = resultMessage(a.Score)
	log.Printf("[GAME] Session %d (%s) finished: %d samples, mean radius %.1f, deviation %.2f, score %d, best %d",
		t.session.Seq, t.session.ID, a.Samples, a.MeanRadius, a.MeanDeviation, a.Score, t.best)
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
	return a.Score, true
}

// Reset clears the canvas and the current score. The best score is kept.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.session = Session{}
	t.score = 0
	t.feedback = MsgPrompt
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Analyze scores the current path without ending the session.
func (t *Tracker) Analyze() Analysis {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scorer.Analyze(t.session.Points, t.center)
}

func (t *Tracker) snapshotLocked() Snapshot {
	points := make([]Point, len(t.session.Points))
	copy(points, t.session.Points)
	return Snapshot{
		Center:    t.center,
		Points:    points,
		Active:    t.session.Active,
		SessionID: t.session.ID,
		Seq:       t.session.Seq,
		Score:     t.score,
		Best:      t.best,
		Feedback:  t.feedback,
	}
}

func (t *Tracker) notify(snap Snapshot) {
	if t.OnChange != nil {
		t.OnChange(snap)
	}
}
