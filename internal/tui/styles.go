package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuitoeic/internal/render"
	"github.com/verte-zerg/tuitoeic/internal/scoring"
)

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	textStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9"))
	accentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	correctStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	neutralStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	badgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")).Background(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	explainStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	separatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	activeNavStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

func optionStyle(state scoring.OptionState) lipgloss.Style {
	switch state {
	case scoring.SelectedUnchecked:
		return accentStyle
	case scoring.CorrectRevealed:
		return correctStyle
	case scoring.IncorrectSelectedRevealed:
		return incorrectStyle
	case scoring.UnselectedRevealed:
		return mutedStyle
	default:
		return neutralStyle
	}
}

func optionMarker(state scoring.OptionState) string {
	switch state {
	case scoring.SelectedUnchecked:
		return "●"
	case scoring.CorrectRevealed:
		return "✓"
	case scoring.IncorrectSelectedRevealed:
		return "✗"
	case scoring.UnselectedRevealed:
		return "·"
	default:
		return "○"
	}
}

func roleStyle(role render.Role) lipgloss.Style {
	switch role {
	case render.RoleTitle:
		return titleStyle
	case render.RoleMeta, render.RoleTableRule:
		return mutedStyle
	case render.RoleTableHeader:
		return titleStyle
	case render.RoleKVHighlight:
		return accentStyle
	default:
		return textStyle
	}
}
