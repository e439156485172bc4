package notes

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func formatShortcut(binding key.Binding) string {
	help := binding.Help()
	keyStr := strings.TrimSpace(help.Key)
	desc := strings.TrimSpace(help.Desc)

	if desc != "" {
		desc = capitalize(desc)
	}

	switch {
	case keyStr != "" && desc != "":
		return fmt.Sprintf("%s %s", keyStr, desc)
	case keyStr != "":
		return keyStr
	case desc != "":
		return desc
	}

	keys := binding.Keys()
	if len(keys) > 0 {
		return keys[0]
	}
	return ""
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// renderFooter joins the shared status line with the shortcut hints.
func renderFooter(status string, bindings []key.Binding) string {
	sections := []string{}
	if status != "" {
		sections = append(sections, footerStyle.Render(status))
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		if s := formatShortcut(b); s != "" {
			hints = append(hints, s)
		}
	}
	if len(hints) > 0 {
		sections = append(sections, footerStyle.Render(strings.Join(hints, " · ")))
	}

	return strings.Join(sections, footerStyle.Render("  |  "))
}

func padFrame(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}

	if width > 0 {
		for i, line := range lines {
			pad := width - lipgloss.Width(line)
			if pad > 0 {
				lines[i] = line + strings.Repeat(" ", pad)
			}
		}
	}

	if height > len(lines) {
		blank := ""
		if width > 0 {
			blank = strings.Repeat(" ", width)
		}
		for len(lines) < height {
			lines = append(lines, blank)
		}
	}

	return strings.Join(lines, "\n")
}
