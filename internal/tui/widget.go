package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/lapwatch/internal/config"
	"github.com/jask/lapwatch/internal/logging"
	"github.com/jask/lapwatch/internal/stopwatch"
)

// Widget is the stopwatch screen. It is the only owner of the stopwatch
// state; bubbletea delivers key, mouse and tick messages to it one at a time.
type Widget struct {
	sw      *stopwatch.Stopwatch
	sampler *sampler
	keys    *KeyRegistry
	help    help.Model
	input   textinput.Model
	log     *logrus.Logger
	cfg     config.Config
	save    func(config.Config) error

	title   string
	editing bool
	mouse   bool
	width   int
	height  int
	session string
	closed  bool
}

// Options configures a Widget. Zero values fall back to defaults.
type Options struct {
	Config config.Config
	Clock  stopwatch.Clock
	Keys   *KeyRegistry
	Logger *logrus.Logger
	// SaveConfig persists Config after the title is renamed. Nil keeps
	// renames in memory.
	SaveConfig func(config.Config) error
}

// configSavedMsg reports the outcome of a SaveConfig call.
type configSavedMsg struct {
	err error
}

func New(opts Options) *Widget {
	keys := opts.Keys
	if keys == nil {
		keys = NewKeyRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	ui := opts.Config.UI
	title := strings.TrimSpace(ui.Title)
	if title == "" {
		title = "Stopwatch"
	}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "title"
	in.CharLimit = 48

	return &Widget{
		sw:      stopwatch.New(opts.Clock),
		sampler: newSampler(ui.TickInterval),
		keys:    keys,
		help:    help.New(),
		input:   in,
		log:     logger,
		cfg:     opts.Config,
		save:    opts.SaveConfig,
		title:   title,
		mouse:   ui.Mouse,
		session: uuid.NewString(),
	}
}

func (w *Widget) Init() tea.Cmd {
	w.entry().Info("stopwatch mounted")
	return tea.SetWindowTitle(w.title)
}

func (w *Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = m.Width, m.Height
		w.help.Width = m.Width
		return w, nil
	case tickMsg:
		return w, w.handleTick(m)
	case tea.KeyMsg:
		return w.handleKey(m)
	case tea.MouseMsg:
		return w, w.handleMouse(m)
	case configSavedMsg:
		if m.err != nil {
			w.entry().WithError(m.err).Warn("save title")
		}
		return w, nil
	}
	return w, nil
}

// Stopwatch exposes the underlying state for callers that render a summary
// after the program exits.
func (w *Widget) Stopwatch() *stopwatch.Stopwatch { return w.sw }

func (w *Widget) Title() string { return w.title }

// Unmount cancels the sampling task whatever the run state. It is safe to
// call more than once.
func (w *Widget) Unmount() {
	w.sampler.Stop()
	if w.closed {
		return
	}
	w.closed = true
	w.entry().Info("stopwatch unmounted")
}

func (w *Widget) handleTick(m tickMsg) tea.Cmd {
	if w.closed || !w.sampler.Accept(m) {
		return nil
	}
	w.sw.Sample()
	return w.sampler.Next()
}

func (w *Widget) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.editing {
		return w.handleTitleKey(m)
	}
	a, ok := w.keys.Lookup(m.String(), scopeStopwatch)
	if !ok {
		return w, nil
	}
	return w, w.dispatch(a)
}

// handleTitleKey routes keys to the focused title input. Stopwatch
// shortcuts are typed as text here.
func (w *Widget) handleTitleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a, ok := w.keys.Lookup(m.String(), scopeTitleInput); ok {
		switch a {
		case actionConfirm:
			return w, w.commitTitle()
		case actionCancel:
			w.stopEditing()
			return w, nil
		case actionQuit:
			return w, w.quit()
		}
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(m)
	return w, cmd
}

func (w *Widget) dispatch(a Action) tea.Cmd {
	switch a {
	case actionToggle:
		return w.toggle()
	case actionLap:
		w.lap()
	case actionReset:
		w.reset()
	case actionClearLaps:
		w.clearLaps()
	case actionEditTitle:
		return w.editTitle()
	case actionQuit:
		return w.quit()
	}
	return nil
}

func (w *Widget) toggle() tea.Cmd {
	if w.sw.Running() {
		w.sampler.Stop()
	}
	if w.sw.Toggle() == stopwatch.Paused {
		w.entry().Info("paused")
		return nil
	}
	w.entry().WithField("anchor", w.sw.Anchor()).Info("started")
	return w.sampler.Start()
}

func (w *Widget) lap() {
	lap, ok := w.sw.Lap()
	if !ok {
		return
	}
	w.entry().WithFields(logrus.Fields{
		"split": stopwatch.Format(lap.Split),
		"total": stopwatch.Format(lap.Total),
	}).Debug("lap")
}

func (w *Widget) reset() {
	w.sampler.Stop()
	w.sw.Reset()
	w.session = uuid.NewString()
	w.entry().Info("reset")
}

func (w *Widget) clearLaps() {
	if w.sw.ClearLaps() {
		w.entry().Debug("laps cleared")
	}
}

func (w *Widget) editTitle() tea.Cmd {
	w.editing = true
	w.input.SetValue(w.title)
	w.input.CursorEnd()
	return w.input.Focus()
}

// commitTitle applies the edited title and, when it changed, saves it as
// ui.title.
func (w *Widget) commitTitle() tea.Cmd {
	v := strings.TrimSpace(w.input.Value())
	w.stopEditing()
	if v == "" || v == w.title {
		return nil
	}
	w.title = v
	w.cfg.UI.Title = v
	cmds := []tea.Cmd{tea.SetWindowTitle(v)}
	if w.save != nil {
		cfg, save := w.cfg, w.save
		cmds = append(cmds, func() tea.Msg {
			return configSavedMsg{err: save(cfg)}
		})
	}
	return tea.Batch(cmds...)
}

func (w *Widget) stopEditing() {
	w.editing = false
	w.input.Blur()
}

func (w *Widget) quit() tea.Cmd {
	w.Unmount()
	return tea.Quit
}

func (w *Widget) entry() *logrus.Entry {
	return w.log.WithFields(logrus.Fields{
		"session":    w.session,
		"elapsed_ms": w.sw.ElapsedMs(),
		"laps":       w.sw.LapCount(),
	})
}
