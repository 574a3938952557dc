package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, true-color hex values.
// https://catppuccin.com/palette
const (
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorSuccess = colorGreen
	colorWarning = colorYellow
	colorDanger  = colorRed
	colorPrimary = colorBlue
	colorMuted   = colorOverlay0
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)

	badgeRunningStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorBase).Background(colorSuccess)
	badgePausedStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorText).Background(colorSurface1)

	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Foreground(colorBase)
	startButtonStyle    = buttonStyle.Background(colorSuccess)
	pauseButtonStyle    = buttonStyle.Background(colorWarning)
	lapButtonStyle      = buttonStyle.Background(colorPrimary)
	resetButtonStyle    = buttonStyle.Background(colorSubtext0)
	clearButtonStyle    = buttonStyle.Background(colorDanger)
	disabledButtonStyle = buttonStyle.Foreground(colorMuted).Background(colorSurface0)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorLavender)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(colorText)
	tableIndexStyle  = tableCellStyle.Bold(true).Foreground(colorPeach)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorSurface1)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)
