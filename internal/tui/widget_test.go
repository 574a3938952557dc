package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/jask/lapwatch/internal/config"
	"github.com/jask/lapwatch/internal/stopwatch"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestWidget(t *testing.T) (*Widget, *manualClock) {
	t.Helper()
	clk := &manualClock{now: time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)}
	w := New(Options{
		Config: config.Config{UI: config.UIConfig{Title: "Stopwatch", TickInterval: time.Millisecond, Mouse: true}},
		Clock:  clk,
	})
	return w, clk
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, w *Widget, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = w.Update(keyMsg(k))
	}
	return cmd
}

// runTicks executes the pending tick command n times, advancing the clock by
// step before each delivery, and returns the next pending command.
func runTicks(t *testing.T, w *Widget, clk *manualClock, cmd tea.Cmd, n int, step time.Duration) tea.Cmd {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NotNil(t, cmd, "tick %d: sampling loop stopped", i)
		msg := cmd()
		clk.Advance(step)
		_, cmd = w.Update(msg)
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestToggleStartsAndPauses(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	require.NotNil(t, cmd)
	require.True(t, w.sw.Running())
	require.True(t, w.sampler.Active())
	require.Contains(t, w.View(), "Running")
	require.Contains(t, w.View(), "Pause")

	cmd = runTicks(t, w, clk, cmd, 25, 10*time.Millisecond)
	require.NotNil(t, cmd)
	require.Equal(t, 250*time.Millisecond, w.sw.Elapsed())

	require.Nil(t, press(t, w, " "))
	require.False(t, w.sw.Running())
	require.False(t, w.sampler.Active())
	require.Contains(t, w.View(), "Paused")
	require.Contains(t, w.View(), "00:00.25")
}

func TestTickAfterPauseIsDropped(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	cmd = runTicks(t, w, clk, cmd, 10, 10*time.Millisecond)
	inflight := cmd()

	press(t, w, " ")
	clk.Advance(time.Second)
	_, next := w.Update(inflight)

	require.Nil(t, next)
	require.Equal(t, 100*time.Millisecond, w.sw.Elapsed())
}

func TestResumeIgnoresTicksFromPreviousRun(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	stale := cmd()
	press(t, w, " ")
	cmd = press(t, w, " ")

	clk.Advance(40 * time.Millisecond)
	_, next := w.Update(stale)
	require.Nil(t, next, "a stale tick must not spawn a second loop")
	require.Zero(t, w.sw.Elapsed())

	runTicks(t, w, clk, cmd, 1, 0)
	require.Equal(t, 40*time.Millisecond, w.sw.Elapsed())
}

func TestPauseResumePreservesElapsed(t *testing.T) {
	w, clk := newTestWidget(t)
	delta := 300 * time.Millisecond

	cmd := press(t, w, " ")
	runTicks(t, w, clk, cmd, 30, 10*time.Millisecond)
	press(t, w, " ")
	clk.Advance(10 * time.Second)

	cmd = press(t, w, " ")
	runTicks(t, w, clk, cmd, 30, 10*time.Millisecond)
	press(t, w, " ")

	require.Equal(t, 2*delta, w.sw.Elapsed())
}

func TestLapIgnoredBeforeStart(t *testing.T) {
	w, _ := newTestWidget(t)

	press(t, w, "l", "L")
	require.Zero(t, w.sw.LapCount())
	require.Contains(t, w.View(), "No laps yet. Press L while running.")
	require.NotContains(t, w.View(), "Clear Laps")
}

func TestLapsRenderTable(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	cmd = runTicks(t, w, clk, cmd, 1, 61230*time.Millisecond)
	press(t, w, "l")
	runTicks(t, w, clk, cmd, 1, 1500*time.Millisecond)
	press(t, w, "L")

	laps := w.sw.Laps()
	require.Len(t, laps, 2)
	require.Equal(t, stopwatch.Lap{Total: 62730 * time.Millisecond, Split: 1500 * time.Millisecond}, laps[1])

	view := w.View()
	require.Contains(t, view, "Δ Prev")
	require.Contains(t, view, "Clear Laps")
	require.NotContains(t, view, "No laps yet")

	var row string
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "01:02.73") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	require.Equal(t, 2, strings.Count(row, "00:01.50"), "Δ Prev repeats the lap split")
}

func TestResetIsIdempotent(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	runTicks(t, w, clk, cmd, 5, 100*time.Millisecond)
	press(t, w, "l")
	session := w.session

	press(t, w, "r")
	require.NotEqual(t, session, w.session)
	require.False(t, w.sw.Running())
	require.False(t, w.sampler.Active())
	require.Zero(t, w.sw.Elapsed())
	require.Zero(t, w.sw.LapCount())
	gen := w.sampler.gen

	press(t, w, "R")
	require.False(t, w.sw.Running())
	require.Zero(t, w.sw.Elapsed())
	require.Zero(t, w.sw.LapCount())
	require.Equal(t, gen, w.sampler.gen)
	require.Contains(t, w.View(), "00:00.00")
}

func TestClearLapsKeepsRunning(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	cmd = runTicks(t, w, clk, cmd, 3, 100*time.Millisecond)
	press(t, w, "l", "l")
	press(t, w, "c")

	require.Zero(t, w.sw.LapCount())
	require.True(t, w.sw.Running())
	require.Equal(t, 300*time.Millisecond, w.sw.Elapsed())

	press(t, w, "c")
	require.Zero(t, w.sw.LapCount())
	require.NotNil(t, runTicks(t, w, clk, cmd, 1, 100*time.Millisecond))
}

func TestStartLapPauseScenario(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	cmd = runTicks(t, w, clk, cmd, 150, 10*time.Millisecond)
	press(t, w, "l")
	runTicks(t, w, clk, cmd, 50, 10*time.Millisecond)
	press(t, w, " ")

	require.Equal(t, []stopwatch.Lap{{Total: 1500 * time.Millisecond, Split: 1500 * time.Millisecond}}, w.sw.Laps())
	require.Contains(t, w.View(), "00:02.00")
}

func TestTitleInputSwallowsShortcuts(t *testing.T) {
	w, _ := newTestWidget(t)

	press(t, w, "e")
	require.True(t, w.editing)
	w.input.SetValue("")
	press(t, w, "L", "a", "p", " ", "r", "q")

	require.False(t, w.sw.Running())
	require.Zero(t, w.sw.LapCount())
	require.Equal(t, "Lap rq", w.input.Value())
	require.Contains(t, w.View(), "save")

	press(t, w, "enter")
	require.False(t, w.editing)
	require.Equal(t, "Lap rq", w.Title())

	press(t, w, " ")
	require.True(t, w.sw.Running())
}

func TestTitleInputCancelAndEmpty(t *testing.T) {
	w, _ := newTestWidget(t)

	press(t, w, "e", "x", "esc")
	require.False(t, w.editing)
	require.Equal(t, "Stopwatch", w.Title())

	press(t, w, "e")
	w.input.SetValue("   ")
	press(t, w, "enter")
	require.Equal(t, "Stopwatch", w.Title())
}

func TestQuitCancelsSampling(t *testing.T) {
	w, clk := newTestWidget(t)

	cmd := press(t, w, " ")
	inflight := cmd()
	require.True(t, isQuit(press(t, w, "q")))
	require.False(t, w.sampler.Active())

	clk.Advance(time.Second)
	_, next := w.Update(inflight)
	require.Nil(t, next)
	require.Zero(t, w.sw.Elapsed())

	w.Unmount()
	require.False(t, w.sampler.Active())
}

func TestQuitFromTitleInput(t *testing.T) {
	w, _ := newTestWidget(t)

	press(t, w, "e")
	require.False(t, isQuit(press(t, w, "q")))
	require.True(t, isQuit(press(t, w, "ctrl+c")))
}

func TestUnknownKeysIgnored(t *testing.T) {
	w, _ := newTestWidget(t)

	require.Nil(t, press(t, w, "x", "z", "1"))
	require.False(t, w.sw.Running())
	require.False(t, w.editing)
}

func TestKeyOverridesAreHonoured(t *testing.T) {
	keys := NewKeyRegistry()
	require.NoError(t, keys.ApplyOverrides([]config.KeyOverride{
		{Scope: scopeStopwatch, Action: "toggle", Keys: []string{"s"}},
	}))
	w := New(Options{Keys: keys, Config: config.Config{UI: config.UIConfig{TickInterval: time.Millisecond}}})

	press(t, w, " ")
	require.False(t, w.sw.Running())
	press(t, w, "s")
	require.True(t, w.sw.Running())
}

func click(w *Widget, x, y int) tea.Cmd {
	_, cmd := w.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return cmd
}

func zoneFor(t *testing.T, w *Widget, a Action) zone {
	t.Helper()
	_, zones := w.renderControls()
	for _, z := range zones {
		if z.action == a {
			return z
		}
	}
	t.Fatalf("no control for %q", a)
	return zone{}
}

func TestMouseActivatesControls(t *testing.T) {
	w, clk := newTestWidget(t)
	row := lipgloss.Height(w.renderHead())

	lap := zoneFor(t, w, actionLap)
	require.False(t, lap.enabled)
	require.Nil(t, click(w, lap.x0, row))
	require.Zero(t, w.sw.LapCount())

	start := zoneFor(t, w, actionToggle)
	require.Nil(t, click(w, start.x0, row+1), "wrong row")
	require.False(t, w.sw.Running())

	cmd := click(w, start.x1-1, row)
	require.NotNil(t, cmd)
	require.True(t, w.sw.Running())
	runTicks(t, w, clk, cmd, 2, 50*time.Millisecond)

	lap = zoneFor(t, w, actionLap)
	require.True(t, lap.enabled)
	click(w, (lap.x0+lap.x1)/2, row)
	require.Equal(t, 1, w.sw.LapCount())

	clear := zoneFor(t, w, actionClearLaps)
	click(w, clear.x0, row)
	require.Zero(t, w.sw.LapCount())

	reset := zoneFor(t, w, actionReset)
	click(w, reset.x0, row)
	require.False(t, w.sw.Running())
	require.Zero(t, w.sw.Elapsed())
}

func TestMouseIgnoredWhenDisabled(t *testing.T) {
	w := New(Options{Config: config.Config{UI: config.UIConfig{TickInterval: time.Millisecond}}})
	start := zoneFor(t, w, actionToggle)

	require.Nil(t, click(w, start.x0, lipgloss.Height(w.renderHead())))
	require.False(t, w.sw.Running())

	_, cmd := w.Update(tea.MouseMsg{X: start.x0, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Nil(t, cmd)
}

func TestControlsReflectState(t *testing.T) {
	w, clk := newTestWidget(t)

	labels := func() []string {
		var out []string
		for _, c := range w.controls() {
			out = append(out, c.label)
		}
		return out
	}
	require.Equal(t, []string{"Start", "Lap", "Reset"}, labels())

	cmd := press(t, w, " ")
	require.Equal(t, []string{"Pause", "Lap", "Reset"}, labels())
	runTicks(t, w, clk, cmd, 1, time.Second)
	press(t, w, "l")
	require.Equal(t, []string{"Pause", "Lap", "Reset", "Clear Laps"}, labels())
}

func TestLapTableTrimsToHeight(t *testing.T) {
	w, clk := newTestWidget(t)
	w.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	cmd := press(t, w, " ")
	for i := 0; i < 30; i++ {
		cmd = runTicks(t, w, clk, cmd, 1, time.Second)
		press(t, w, "l")
	}

	view := w.View()
	require.Contains(t, view, "23 earlier laps hidden")
	require.Contains(t, view, "00:24.00")
	require.NotContains(t, view, "00:23.00")
	require.LessOrEqual(t, lipgloss.Height(view), 20)
}

func TestInitSetsWindowTitle(t *testing.T) {
	w, _ := newTestWidget(t)
	require.NotNil(t, w.Init())
}

func TestRenamePersistsTitle(t *testing.T) {
	var saved []config.Config
	w := New(Options{
		Config: config.Config{
			UI:  config.UIConfig{Title: "Stopwatch", TickInterval: time.Millisecond},
			Log: config.LogConfig{Level: "info"},
		},
		SaveConfig: func(cfg config.Config) error {
			saved = append(saved, cfg)
			return nil
		},
	})

	press(t, w, "e")
	w.input.SetValue("Intervals")
	cmd := press(t, w, "enter")
	require.NotNil(t, cmd)
	require.Equal(t, "Intervals", w.Title())

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if msg, ok := c().(configSavedMsg); ok {
			require.NoError(t, msg.err)
			w.Update(msg)
		}
	}
	require.Len(t, saved, 1)
	require.Equal(t, "Intervals", saved[0].UI.Title)
	require.Equal(t, "info", saved[0].Log.Level)

	press(t, w, "e")
	require.Nil(t, press(t, w, "enter"), "unchanged title is not saved again")
	require.Len(t, saved, 1)
}

func TestRenameWithoutSaverStaysInMemory(t *testing.T) {
	w, _ := newTestWidget(t)

	press(t, w, "e")
	w.input.SetValue("Laps")
	cmd := press(t, w, "enter")
	require.NotNil(t, cmd)
	require.Equal(t, "Laps", w.Title())
	require.Equal(t, "Laps", w.cfg.UI.Title)
}

func TestDefaultLoggerDiscards(t *testing.T) {
	w, _ := newTestWidget(t)
	require.Equal(t, io.Discard, w.log.Out)
}
