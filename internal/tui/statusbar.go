package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(markCount, cursor int, panelFocused bool, width int) string {
	left := fmt.Sprintf(" %d articles", markCount)
	if cursor >= 0 {
		left += fmt.Sprintf(" · %d/%d", cursor+1, markCount)
	}

	right := " ←/→ move  enter open  tab panel  q quit "
	if panelFocused {
		right = " j/k scroll  tab timeline  q quit "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
