package main

import (
	"fmt"

	"genesis-backend/internal/client"
	"genesis-backend/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func modeLabel(m model.Mode) string {
	if m == model.ModeRealtime {
		return "realtime"
	}
	return "HTTP fallback"
}

func printReply(reply *client.Reply, showCode bool) {
	if showCode {
		fmt.Println(codeStyle.Render(reply.Message.ComponentCode))
	}
	a := reply.Artifact
	if a == nil {
		return
	}
	meta := fmt.Sprintf("via %s, model %s", modeLabel(reply.Transport), reply.Message.Model)
	if a.Fallback {
		meta += fmt.Sprintf(", template %q (%s)", a.Template, a.Diagnostic)
	}
	fmt.Println(metaStyle.Render(meta))
	fmt.Println(a.HTML)
}
