// Package display provides the terminal UI using Bubble Tea.
//
// The [Model] owns the screen: it turns key presses and clicks into
// controller calls, composes a frame after every change and renders it
// into scrollable columns. The autoplay loop never talks to the model
// directly; it advances the controller, whose notifier drops the new
// state on a one-slot channel the model listens to.
package display

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/tworooms/internal/compose"
	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/engine"
	"github.com/hammamikhairi/tworooms/internal/input"
	"github.com/hammamikhairi/tworooms/internal/logger"
	"github.com/hammamikhairi/tworooms/internal/timer"
)

// Option configures the model.
type Option func(*Model)

// WithView sets the starting view.
func WithView(v domain.View) Option {
	return func(m *Model) {
		m.view = v
		if v.Layout != domain.LayoutPaired {
			m.visLayout = v.Layout
		}
	}
}

// WithSteps sets the channel the model listens on for step changes made
// outside the UI (autoplay).
func WithSteps(ch <-chan domain.StepState) Option {
	return func(m *Model) {
		m.steps = ch
	}
}

// WithIntervals sets the autoplay period per layout.
func WithIntervals(fn func(domain.Layout) time.Duration) Option {
	return func(m *Model) {
		m.intervals = fn
	}
}

// WithViewObserver registers fn to be told about every view change. It
// runs on the UI goroutine.
func WithViewObserver(fn func(domain.View)) Option {
	return func(m *Model) {
		m.onView = fn
	}
}

// WithoutIntro starts on the player instead of the intro screen.
func WithoutIntro() Option {
	return func(m *Model) {
		m.intro = false
	}
}

// Model is the Bubble Tea model for the player.
type Model struct {
	ctx       context.Context
	deck      *domain.Deck
	ctrl      *engine.Controller
	auto      *timer.Autoplay
	panels    domain.PanelStore
	parser    *input.Parser
	log       *logger.Logger
	steps     <-chan domain.StepState
	intervals func(domain.Layout) time.Duration
	onView    func(domain.View)

	view      domain.View
	visLayout domain.Layout // layout to restore when returning to the visualizer
	intro     bool

	width, height int
	frame         compose.Frame
	origin        string // rendered origin block, empty when there is none
	hits          hitMap
	columns       []viewport.Model
	help          help.Model
	md            *glamour.TermRenderer
	mdWidth       int
}

// New creates the model and applies the starting view to the controller.
func New(ctx context.Context, deck *domain.Deck, ctrl *engine.Controller, auto *timer.Autoplay,
	panels domain.PanelStore, log *logger.Logger, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		deck:   deck,
		ctrl:   ctrl,
		auto:   auto,
		panels: panels,
		parser: input.NewParser(log),
		log:    log,
		view:   domain.View{Active: domain.ScriptAI},
		intro:  true,
		width:  80,
		height: 24,
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.applyView()
	m.refresh()
	return m
}

// CurrentView returns the current view selector.
func (m Model) CurrentView() domain.View { return m.view }

// Frame returns the last composed frame.
func (m Model) Frame() compose.Frame { return m.frame }

// Intro reports whether the intro screen is showing.
func (m Model) Intro() bool { return m.intro }

// ── Messages ─────────────────────────────────────────────────────

// stepMsg carries a step change made outside the UI.
type stepMsg domain.StepState

// waitForStep blocks on the step channel and hands the next change to
// Update. A nil channel yields no command.
func waitForStep(ch <-chan domain.StepState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stepMsg(s)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Two Rooms"),
		waitForStep(m.steps),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case stepMsg:
		m.refresh()
		return m, waitForStep(m.steps)

	case tea.KeyMsg:
		cmd := m.parser.Parse(msg, m.view.Screen, m.intro)
		return m.apply(cmd)

	case tea.MouseMsg:
		return m.mouse(msg)
	}
	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		var cmds []tea.Cmd
		for i := range m.columns {
			var cmd tea.Cmd
			m.columns[i], cmd = m.columns[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft:
		return m, nil

	case m.intro:
		return m.apply(domain.Command{Type: domain.CommandDismissIntro})
	}

	offsets := make([]int, len(m.columns))
	for i, vp := range m.columns {
		offsets[i] = vp.YOffset
	}
	return m.apply(m.hits.resolve(msg.X, msg.Y, offsets))
}

// apply runs a command against the controller and view, then recomposes.
func (m Model) apply(cmd domain.Command) (tea.Model, tea.Cmd) {
	if cmd.Type == domain.CommandNone {
		return m, nil
	}
	m.log.Debug("command %s (payload=%q step=%d)", cmd.Type, cmd.Payload, cmd.Step)

	switch cmd.Type {
	case domain.CommandQuit:
		m.auto.Stop()
		return m, tea.Quit

	case domain.CommandDismissIntro:
		m.intro = false

	case domain.CommandAdvance:
		m.ctrl.Advance()
		m.auto.Sync(m.ctx)

	case domain.CommandBack:
		m.ctrl.GoBack()

	case domain.CommandReset:
		m.ctrl.Reset()
		m.auto.Sync(m.ctx)

	case domain.CommandTogglePlay:
		m.auto.Toggle(m.ctx)

	case domain.CommandJump:
		m.ctrl.JumpTo(cmd.Step)
		m.auto.Sync(m.ctx)

	case domain.CommandTogglePanel:
		m.panels.Toggle(cmd.Payload)

	case domain.CommandToggleDetail:
		if m.view.Detail == domain.DetailVisual {
			m.view.Detail = domain.DetailDetailed
		} else {
			m.view.Detail = domain.DetailVisual
		}
		m.applyView()

	case domain.CommandToggleLayout:
		if m.view.Layout == domain.LayoutSingle {
			m.view.Layout = domain.LayoutCompare
		} else {
			m.view.Layout = domain.LayoutSingle
		}
		m.visLayout = m.view.Layout
		m.applyView()

	case domain.CommandSelectScript:
		id, err := domain.ParseScriptID(cmd.Payload)
		if err != nil {
			m.log.Warn("select script: %v", err)
			return m, nil
		}
		m.view.Active = id
		m.ctrl.Reset()
		m.applyView()

	case domain.CommandSwitchScreen:
		if m.view.Screen == domain.ScreenVisualizer {
			m.view.Screen = domain.ScreenDivergence
			m.view.Layout = domain.LayoutPaired
		} else {
			m.view.Screen = domain.ScreenVisualizer
			m.view.Layout = m.visLayout
		}
		m.applyView()
	}

	m.refresh()
	return m, nil
}

// applyView pauses playback, forgets panel flags and re-derives the max
// step and autoplay period for the current view.
func (m *Model) applyView() {
	m.ctrl.Pause()
	m.auto.Sync(m.ctx)
	if m.intervals != nil {
		m.auto.SetInterval(m.intervals(m.view.Layout))
	}

	ai, th := m.script(domain.ScriptAI), m.script(domain.ScriptTherapist)
	m.ctrl.SetMaxStep(engine.MaxStepFor(m.view.Layout, m.script(m.view.Active), ai, th))

	m.panels.Reset()
	if m.onView != nil {
		m.onView(m.view)
	}
}

func (m *Model) script(id domain.ScriptID) *domain.Script {
	if m.deck == nil {
		return nil
	}
	return m.deck.Scripts[id]
}

// refresh recomposes the frame and re-renders column contents. Columns
// scroll to the bottom so the newest line is in view.
func (m *Model) refresh() {
	prev := m.frame
	m.frame = compose.Build(m.deck, m.ctrl.State(), m.view, m.panels)

	m.origin = ""
	originRows := 0
	if m.frame.Origin != nil {
		m.origin = renderOrigin(m.frame.Origin, m.width)
		originRows = lipgloss.Height(m.origin) + 1
	}
	m.hits = geometry(m.frame, m.width, m.height, originRows)

	// Follow the newest line only when something new is on screen, so
	// a panel toggle or resize keeps the reader's scroll position.
	follow := prev.Progress.Step != m.frame.Progress.Step ||
		prev.Screen != m.frame.Screen || prev.Layout != m.frame.Layout ||
		prev.Detail != m.frame.Detail || prev.Active != m.frame.Active

	colW := columnWidth(m.width, max(len(m.frame.Columns), 1))
	if m.md == nil || m.mdWidth != colW {
		m.md = newMarkdown(colW - 6)
		m.mdWidth = colW
	}

	if len(m.columns) != len(m.frame.Columns) {
		follow = true
		m.columns = make([]viewport.Model, len(m.frame.Columns))
		for i := range m.columns {
			m.columns[i] = viewport.New(colW, m.hits.bodyHeight)
		}
	}

	for i, col := range m.frame.Columns {
		content, headers := renderColumn(m.frame, col, colW, m.md)
		vp := &m.columns[i]
		vp.Width, vp.Height = colW, m.hits.bodyHeight
		vp.SetContent(content)
		if follow {
			vp.GotoBottom()
		} else {
			vp.SetYOffset(vp.YOffset)
		}
		m.hits.columns[i].headers = headers
	}

	m.log.Debug("frame %s", debugFrame(m.frame))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.intro {
		intro := domain.Intro{}
		if m.deck != nil {
			intro = m.deck.Intro
		}
		return renderIntro(intro, m.width, m.md)
	}

	views := make([]string, len(m.columns))
	for i, vp := range m.columns {
		views[i] = vp.View()
	}

	var b []string
	b = append(b,
		renderHeader(m.frame),
		"",
		renderBar(m.frame, m.hits),
		renderCaption(m.frame),
		"",
	)
	if m.origin != "" {
		b = append(b, m.origin, "")
	}
	b = append(b,
		joinColumns(views),
		"",
		"  "+renderControls(m.frame),
		"  "+m.help.View(m.parser.Keys(m.view.Screen)),
	)
	return strings.Join(b, "\n")
}

// Run hands the terminal to Bubble Tea and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
