package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/soyeahso/relay/internal/domain"
	"github.com/soyeahso/relay/internal/reveal"
)

// EmptyTranscript is shown before the first message.
const EmptyTranscript = "No messages yet. Start a conversation!"

// Theme holds the styles used to draw a transcript.
type Theme struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	User      lipgloss.Style
	System    lipgloss.Style
	Bold      lipgloss.Style
	Number    lipgloss.Style
	Timestamp lipgloss.Style
	// Colored tints agent labels with AgentStyle.Color.
	Colored bool
}

// DefaultTheme is the colored theme used by the interactive chat.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#AFAFAF")),
		Bold:      lipgloss.NewStyle().Bold(true),
		Number:    lipgloss.NewStyle().Bold(true),
		Timestamp: lipgloss.NewStyle().Faint(true),
		Colored:   true,
	}
}

// PlainTheme renders without any escape sequences.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:     plain,
		Muted:     plain,
		User:      plain,
		System:    plain,
		Bold:      plain,
		Number:    plain,
		Timestamp: plain,
	}
}

// Spans renders inline spans.
func (t Theme) Spans(spans []reveal.Span) string {
	if !t.Colored {
		return reveal.PlainText(spans)
	}
	var b strings.Builder
	for _, s := range spans {
		if s.Bold {
			b.WriteString(t.Bold.Render(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Blocks renders formatted content, one line per paragraph or list item.
func (t Theme) Blocks(blocks []reveal.Block) string {
	var lines []string
	for _, blk := range blocks {
		switch blk.Kind {
		case reveal.BlockParagraph:
			lines = append(lines, t.Spans(blk.Spans))
		case reveal.BlockBreak:
			lines = append(lines, "")
		case reveal.BlockList:
			for _, it := range blk.Items {
				lines = append(lines, "  "+t.Number.Render(it.Number+".")+" "+t.Spans(it.Spans))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// AgentLabel renders the icon and name of a.
func (t Theme) AgentLabel(a domain.AgentType) string {
	s := Agent(a)
	label := s.Icon + " " + s.Label
	if t.Colored {
		return lipgloss.NewStyle().Bold(true).Foreground(s.Color).Render(label)
	}
	return label
}

// Message renders one entry. shown is the revealed prefix of an assistant
// reply and is ignored for other roles and for completed replies.
func (t Theme) Message(m domain.Message, shown string) string {
	stamp := t.Timestamp.Render(m.Clock())

	switch m.Role {
	case domain.RoleUser:
		return t.User.Render("You") + " • " + stamp + "\n" + m.Content
	case domain.RoleSystem:
		return t.System.Render(m.Content)
	default:
		text := m.Content
		if m.Revealing() {
			text = shown
		}
		return t.AgentLabel(m.Agent) + " • " + stamp + "\n" + t.Blocks(reveal.Format(text))
	}
}

// Transcript renders every entry separated by blank lines. progress maps a
// revealing message id to the prefix shown so far.
func (t Theme) Transcript(msgs []domain.Message, progress map[string]string) string {
	if len(msgs) == 0 {
		return t.Muted.Render(EmptyTranscript)
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, t.Message(m, progress[m.ID]))
	}
	return strings.Join(parts, "\n\n")
}
