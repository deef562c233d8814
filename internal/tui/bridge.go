// Package tui is the interactive chat screen.
package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soyeahso/relay/internal/domain"
)

type appendedMsg struct{ msg domain.Message }

type revealMsg struct {
	id     string
	prefix string
}

type revealDoneMsg struct{ id string }

// Bridge forwards session notifications into a running program. It is
// created before the program so it can be handed to session.New.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

// NewBridge returns a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach starts forwarding to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

func (b *Bridge) send(msg tea.Msg) {
	if p := b.program.Load(); p != nil {
		p.Send(msg)
	}
}

func (b *Bridge) MessageAppended(msg domain.Message) { b.send(appendedMsg{msg: msg}) }
func (b *Bridge) RevealProgress(id, prefix string)  { b.send(revealMsg{id: id, prefix: prefix}) }
func (b *Bridge) RevealComplete(id string)          { b.send(revealDoneMsg{id: id}) }
