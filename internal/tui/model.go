package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"PerfectCircle/internal/config"
	"PerfectCircle/internal/export"
	"PerfectCircle/internal/state"
)

const (
	headerLines = 1
	footerLines = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true)
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	hotStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")).Bold(true)
)

type exportedMsg struct {
	path string
	err  error
}

// Model draws the game in a terminal. Each character cell stands for a
// block of canvas pixels, so points are sampled at cell centers.
type Model struct {
	tracker   *state.Tracker
	cfg       config.Config
	cols      int
	rows      int
	status    string
	exportDir string
}

func NewModel(tracker *state.Tracker, cfg config.Config) Model {
	m := Model{tracker: tracker, cfg: cfg, exportDir: "."}
	m.cols, m.rows = fitGrid(80, 24, cfg.CanvasWidth, cfg.CanvasHeight)
	return m
}

// WithExportDir sets where PDF exports are written.
func (m Model) WithExportDir(dir string) Model {
	m.exportDir = dir
	return m
}

// fitGrid picks the largest grid that fits the terminal and keeps the
// canvas aspect ratio, assuming cells twice as tall as wide.
func fitGrid(termW, termH int, cw, ch float64) (cols, rows int) {
	rows = termH - headerLines - footerLines
	if rows < 1 {
		rows = 1
	}
	cols = int(float64(rows) * 2 * cw / ch)
	if cols > termW {
		cols = termW
		rows = int(float64(cols) * ch / (2 * cw))
	}
	return max(cols, 1), max(rows, 1)
}

// toCanvas maps a terminal cell to canvas coordinates. Cells outside the
// grid report false.
func (m Model) toCanvas(x, y int) (state.Point, bool) {
	col, row := x, y-headerLines
	if col < 0 || row < 0 || col >= m.cols || row >= m.rows {
		return state.Point{}, false
	}
	return state.Point{
		X: (float64(col) + 0.5) * m.cfg.CanvasWidth / float64(m.cols),
		Y: (float64(row) + 0.5) * m.cfg.CanvasHeight / float64(m.rows),
	}, true
}

// toCell maps canvas coordinates to a grid cell.
func (m Model) toCell(p state.Point) (col, row int) {
	col = int(math.Floor(p.X * float64(m.cols) / m.cfg.CanvasWidth))
	row = int(math.Floor(p.Y * float64(m.rows) / m.cfg.CanvasHeight))
	return col, row
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = fitGrid(msg.Width, msg.Height, m.cfg.CanvasWidth, m.cfg.CanvasHeight)
		if m.tracker.Snapshot().Active {
			// cell mapping changed under an active drag
			m.tracker.EndSession()
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.tracker.Reset()
			m.status = ""
		case "e":
			return m, m.exportCmd()
		}
	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Saved " + msg.path
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if p, ok := m.toCanvas(msg.X, msg.Y); ok {
			m.tracker.BeginSession(p)
		}
	case tea.MouseActionMotion:
		if p, ok := m.toCanvas(msg.X, msg.Y); ok {
			m.tracker.ExtendSession(p)
		}
	case tea.MouseActionRelease:
		m.tracker.EndSession()
	}
}

func (m Model) exportCmd() tea.Cmd {
	d := export.Capture(m.tracker, export.Canvas{
		Width:        m.cfg.CanvasWidth,
		Height:       m.cfg.CanvasHeight,
		CenterRadius: m.cfg.CenterRadius,
		StrokeWidth:  m.cfg.StrokeWidth,
	})
	if len(d.Snapshot.Points) == 0 {
		return func() tea.Msg {
			return exportedMsg{err: fmt.Errorf("nothing drawn yet")}
		}
	}
	path := filepath.Join(m.exportDir, fmt.Sprintf("circle-%d.pdf", d.Snapshot.Seq))
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.ExportPDF(path, d)}
	}
}

// grid rasterises the snapshot: the center marker first, then the path on top.
func (m Model) grid(snap state.Snapshot) [][]rune {
	g := make([][]rune, m.rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", m.cols))
	}
	set := func(col, row int, r rune) {
		if row >= 0 && row < m.rows && col >= 0 && col < m.cols {
			g[row][col] = r
		}
	}

	cc, cr := m.toCell(snap.Center)
	set(cc, cr, 'o')

	var prevC, prevR int
	for i, p := range snap.Points {
		c, r := m.toCell(p)
		if i == 0 {
			set(c, r, '•')
			prevC, prevR = c, r
			continue
		}
		steps := max(abs(c-prevC), abs(r-prevR))
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			set(prevC+int(math.Round(t*float64(c-prevC))), prevR+int(math.Round(t*float64(r-prevR))), '•')
		}
		prevC, prevR = c, r
	}
	return g
}

func (m Model) View() string {
	snap := m.tracker.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Perfect Circle") + "  " + snap.Feedback + "\n")
	for _, row := range m.grid(snap) {
		for _, r := range row {
			switch r {
			case 'o':
				b.WriteString(markerStyle.Render(string(r)))
			case '•':
				b.WriteString(pathStyle.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(hotStyle.Render(snap.ScoreText()) + "   " + hotStyle.Render(snap.BestText()) + "\n")
	help := "drag to draw · r reset · e export pdf · q quit"
	if m.status != "" {
		help += "   " + m.status
	}
	b.WriteString(mutedStyle.Render(help))
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func Run(cfg config.Config) error {
	program := tea.NewProgram(NewModel(cfg.NewTracker(), cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}
