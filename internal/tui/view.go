package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jask/lapwatch/internal/stopwatch"
)

type control struct {
	label   string
	action  Action
	enabled bool
	style   lipgloss.Style
}

// zone is the horizontal extent [x0, x1) of a rendered control.
type zone struct {
	action  Action
	x0, x1  int
	enabled bool
}

// controls lists the buttons in display order. Clear Laps is present only
// while there are laps.
func (w *Widget) controls() []control {
	toggle := control{label: "Start", action: actionToggle, enabled: true, style: startButtonStyle}
	if w.sw.Running() {
		toggle.label, toggle.style = "Pause", pauseButtonStyle
	}
	out := []control{
		toggle,
		{label: "Lap", action: actionLap, enabled: w.sw.CanLap(), style: lapButtonStyle},
		{label: "Reset", action: actionReset, enabled: w.sw.CanReset(), style: resetButtonStyle},
	}
	if w.sw.LapCount() > 0 {
		out = append(out, control{label: "Clear Laps", action: actionClearLaps, enabled: true, style: clearButtonStyle})
	}
	return out
}

func (w *Widget) View() string {
	head := w.renderHead()
	row, _ := w.renderControls()
	footer := w.renderFooter()
	laps := w.renderLaps(lipgloss.Height(head) + 2 + lipgloss.Height(footer) + 2)
	return strings.Join([]string{head, row, "", laps, "", footer}, "\n")
}

func (w *Widget) renderHead() string {
	var title string
	if w.editing {
		title = titleStyle.Render("▸ ") + w.input.View()
	} else {
		title = titleStyle.Render(w.title)
	}
	badgeStyle := badgePausedStyle
	if w.sw.State() == stopwatch.Running {
		badgeStyle = badgeRunningStyle
	}
	badge := badgeStyle.Render(w.sw.State().String())
	clock := clockStyle.Render(stopwatch.Format(w.sw.Elapsed()))
	return strings.Join([]string{title + "  " + badge, "", clock, ""}, "\n")
}

func (w *Widget) renderControls() (string, []zone) {
	var (
		b     strings.Builder
		zones []zone
		x     int
	)
	for i, c := range w.controls() {
		if i > 0 {
			b.WriteString(" ")
			x++
		}
		st := c.style
		if !c.enabled {
			st = disabledButtonStyle
		}
		s := st.Render(c.label)
		width := lipgloss.Width(s)
		zones = append(zones, zone{action: c.action, x0: x, x1: x + width, enabled: c.enabled})
		x += width
		b.WriteString(s)
	}
	return b.String(), zones
}

// renderLaps draws the lap table. When the terminal height is known, only
// the most recent laps that fit beside reserved lines are shown.
func (w *Widget) renderLaps(reserved int) string {
	laps := w.sw.Laps()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers("#", "Lap", "Total", "Δ Prev").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableIndexStyle
			default:
				return tableCellStyle
			}
		})

	if len(laps) == 0 {
		hint := "No laps yet. Press " + strings.ToUpper(w.keys.KeyFor(actionLap, scopeStopwatch)) + " while running."
		return t.String() + "\n" + mutedStyle.Render(hint)
	}

	first := 0
	if w.height > 0 {
		// header row and three border lines
		room := w.height - reserved - 4
		if room < 1 {
			room = 1
		}
		if len(laps) > room {
			first = len(laps) - room
		}
	}
	for i := first; i < len(laps); i++ {
		t.Row(
			strconv.Itoa(i+1),
			stopwatch.Format(laps[i].Split),
			stopwatch.Format(laps[i].Total),
			stopwatch.Format(w.sw.Delta(i)),
		)
	}
	out := t.String()
	if first > 0 {
		out += "\n" + mutedStyle.Render(strconv.Itoa(first)+" earlier laps hidden")
	}
	return out
}

func (w *Widget) renderFooter() string {
	scope := scopeStopwatch
	if w.editing {
		scope = scopeTitleInput
	}
	return w.help.ShortHelpView(w.keys.HelpBindings(scope))
}

// handleMouse activates the control under a left-button press. Presses on
// disabled controls are ignored.
func (w *Widget) handleMouse(m tea.MouseMsg) tea.Cmd {
	if !w.mouse || w.editing {
		return nil
	}
	if m.Action != tea.MouseActionPress || m.Button != tea.MouseButtonLeft {
		return nil
	}
	if m.Y != lipgloss.Height(w.renderHead()) {
		return nil
	}
	_, zones := w.renderControls()
	for _, z := range zones {
		if m.X >= z.x0 && m.X < z.x1 {
			if !z.enabled {
				return nil
			}
			return w.dispatch(z.action)
		}
	}
	return nil
}
