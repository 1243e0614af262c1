package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// Recorder writes every rendered frame and the message that produced it to
// a directory, for debugging layout issues.
type Recorder struct {
	logFile  *os.File
	dir      string
	frameNum int
}

// NewRecorder creates dir and opens its log.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating record directory: %w", err)
	}
	logFile, err := os.Create(filepath.Join(filepath.Clean(dir), "tui.log"))
	if err != nil {
		return nil, fmt.Errorf("creating record log: %w", err)
	}

	r := &Recorder{logFile: logFile, dir: dir}
	r.Log("Recording started at %s", time.Now().Format(time.RFC3339))
	return r, nil
}

// Record captures one frame.
func (r *Recorder) Record(m Model, msg tea.Msg) {
	r.frameNum++
	r.Log("=== Frame %d (%s) ===", r.frameNum, time.Now().Format("15:04:05.000"))
	r.Log("Message: %T", msg)
	r.Log("State: board=%s view=%d fetching=%v focus=%d/%q class=%s",
		m.board.State(), m.state, m.board.Fetching(), m.focusItem, m.focusKey, m.layout.class)

	frame := ansi.Strip(m.View())
	path := filepath.Join(r.dir, fmt.Sprintf("frame-%04d.txt", r.frameNum))
	if err := os.WriteFile(path, []byte(frame), 0o600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes a line to the record log.
func (r *Recorder) Log(format string, args ...any) {
	if r.logFile == nil {
		return
	}
	_, _ = fmt.Fprintf(r.logFile, format+"\n", args...)
}

// Frames returns the number of recorded frames.
func (r *Recorder) Frames() int { return r.frameNum }

// Close closes the record log.
func (r *Recorder) Close() error {
	if r.logFile == nil {
		return nil
	}
	r.Log("Recording complete, %d frames", r.frameNum)
	return r.logFile.Close()
}

// recordingModel records a frame after every update.
type recordingModel struct {
	rec   *Recorder
	inner Model
}

func (r recordingModel) Init() tea.Cmd { return r.inner.Init() }

func (r recordingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.inner.Update(msg)
	r.inner = next.(Model)
	if _, tick := msg.(spinner.TickMsg); !tick {
		r.rec.Record(r.inner, msg)
	}
	return r, cmd
}

func (r recordingModel) View() string { return r.inner.View() }
