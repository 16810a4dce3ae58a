package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/projassist/internal/models"
	"github.com/diogo/projassist/internal/render"
)

// bubbleRatio caps a message bubble at this share of the transcript width
const bubbleRatio = 0.85

// renderTranscript draws the message list. User text is shown verbatim;
// assistant text goes through the markdown-lite parser. While a turn is
// pending a typing indicator follows the last message.
func renderTranscript(msgs []models.Message, width int, pending bool, indicator string) string {
	if width < 10 {
		width = 10
	}
	maxBubble := int(float64(width) * bubbleRatio)

	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		if msg.IsUser() {
			sb.WriteString(renderUserMessage(msg.Content, width, maxBubble))
		} else {
			sb.WriteString(renderAssistantMessage(msg.Content, maxBubble))
		}
		sb.WriteString("\n")
	}

	if pending {
		sb.WriteString("\n")
		sb.WriteString(assistantLabelStyle.Render("✦ Assistant"))
		sb.WriteString("\n")
		sb.WriteString(typingStyle.Render(indicator + " thinking"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderUserMessage(content string, width, maxBubble int) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = render.Sanitize(line)
	}
	text := strings.Join(lines, "\n")
	bubble := userBubbleStyle.Width(bubbleWidth(text, maxBubble)).Render(text)
	label := userLabelStyle.Render("You ●")

	return lipgloss.JoinVertical(lipgloss.Right,
		lipgloss.PlaceHorizontal(width, lipgloss.Right, label),
		lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble),
	)
}

func renderAssistantMessage(content string, maxBubble int) string {
	text := render.Terminal(render.Parse(content), spanStyles)
	bubble := assistantBubbleStyle.Width(bubbleWidth(text, maxBubble)).Render(text)
	label := assistantLabelStyle.Render("✦ Assistant")

	return label + "\n" + bubble
}

// bubbleWidth fits short messages tightly and wraps long ones at maxBubble.
// The result excludes the border, which lipgloss adds outside Width.
func bubbleWidth(text string, maxBubble int) int {
	const frame = 2 // left and right border
	const padding = 2
	w := lipgloss.Width(text) + padding
	if limit := maxBubble - frame; w > limit {
		w = limit
	}
	if w < padding+1 {
		w = padding + 1
	}
	return w
}
