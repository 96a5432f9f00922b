package tui

import (
	"strings"

	"github.com/matheuskafuri/devtimeline/internal/article"
)

// panelContent is the plain text shown in the side panel, wrapped to width.
func panelContent(text string, width int) string {
	plain := article.PlainText(text)
	if plain == "" {
		return hintStyle.Render("Hover an article to read it here")
	}
	return wrapText(plain, width)
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
