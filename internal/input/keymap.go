// Package input maps key presses to player commands.
package input

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface check.
var _ help.KeyMap = KeyMap{}

// KeyMap holds every binding the player understands.
type KeyMap struct {
	Advance         key.Binding
	Back            key.Binding
	Reset           key.Binding
	Play            key.Binding
	Detail          key.Binding
	Layout          key.Binding
	ScriptAI        key.Binding
	ScriptTherapist key.Binding
	Screen          key.Binding
	Enter           key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Advance: key.NewBinding(
			key.WithKeys("right", " ", "l"),
			key.WithHelp("→/space", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "reset"),
		),
		Play: key.NewBinding(
			key.WithKeys("p", "P"),
			key.WithHelp("p", "play/pause"),
		),
		Detail: key.NewBinding(
			key.WithKeys("v", "V"),
			key.WithHelp("v", "visual/detailed"),
		),
		Layout: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "single/compare"),
		),
		ScriptAI: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "AI"),
		),
		ScriptTherapist: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "therapist"),
		),
		Screen: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch screen"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "begin"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// For returns a copy with only the bindings that apply on a screen
// enabled. Layout and script keys belong to the visualizer, the detail
// key to the divergence screen.
func (k KeyMap) For(screen domain.Screen) KeyMap {
	visualizer := screen == domain.ScreenVisualizer
	k.Layout.SetEnabled(visualizer)
	k.ScriptAI.SetEnabled(visualizer)
	k.ScriptTherapist.SetEnabled(visualizer)
	k.Detail.SetEnabled(!visualizer)
	return k
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Back, k.Play, k.Reset, k.Layout, k.Detail, k.Screen, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Back, k.Play, k.Reset},
		{k.Layout, k.ScriptAI, k.ScriptTherapist, k.Detail},
		{k.Screen, k.Quit},
	}
}

// Parser turns key messages into commands for the current screen.
type Parser struct {
	log  *logger.Logger
	keys KeyMap
}

// NewParser creates a parser with the default bindings.
func NewParser(log *logger.Logger) *Parser {
	return &Parser{log: log, keys: DefaultKeyMap()}
}

// Keys returns the bindings active on a screen, for the help line.
func (p *Parser) Keys(screen domain.Screen) KeyMap {
	return p.keys.For(screen)
}

// Parse maps a key press to a command. While the intro is showing only
// Enter, space and quit do anything.
func (p *Parser) Parse(msg tea.KeyMsg, screen domain.Screen, intro bool) domain.Command {
	k := p.keys.For(screen)

	if intro {
		switch {
		case key.Matches(msg, k.Quit):
			return domain.Command{Type: domain.CommandQuit}
		case key.Matches(msg, k.Enter):
			return domain.Command{Type: domain.CommandDismissIntro}
		}
		return domain.Command{Type: domain.CommandNone}
	}

	var cmd domain.Command
	switch {
	case key.Matches(msg, k.Quit):
		cmd.Type = domain.CommandQuit
	case key.Matches(msg, k.Advance):
		cmd.Type = domain.CommandAdvance
	case key.Matches(msg, k.Back):
		cmd.Type = domain.CommandBack
	case key.Matches(msg, k.Reset):
		cmd.Type = domain.CommandReset
	case key.Matches(msg, k.Play):
		cmd.Type = domain.CommandTogglePlay
	case key.Matches(msg, k.Detail):
		cmd.Type = domain.CommandToggleDetail
	case key.Matches(msg, k.Layout):
		cmd.Type = domain.CommandToggleLayout
	case key.Matches(msg, k.ScriptAI):
		cmd = domain.Command{Type: domain.CommandSelectScript, Payload: string(domain.ScriptAI)}
	case key.Matches(msg, k.ScriptTherapist):
		cmd = domain.Command{Type: domain.CommandSelectScript, Payload: string(domain.ScriptTherapist)}
	case key.Matches(msg, k.Screen):
		cmd.Type = domain.CommandSwitchScreen
	}

	if cmd.Type != domain.CommandNone {
		p.log.Debug("key %q -> %s", msg.String(), cmd.Type)
	}
	return cmd
}
