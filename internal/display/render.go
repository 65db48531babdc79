package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/tworooms/internal/compose"
	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/metrics"
)

// Fixed rows above the transcript body.
const (
	rowBar     = 2
	headerRows = 5 // header, blank, bar, caption, blank
	footerRows = 3 // blank, controls, help
	barLeft    = 2
	columnGap  = " │ "
)

// ── Hit testing ──────────────────────────────────────────────────

// hitMap records where clickable things were drawn.
type hitMap struct {
	barRow   int
	barLeft  int
	segW     int // cells per segment, gap included
	glyphW   int
	segments int

	bodyTop    int
	bodyHeight int
	columns    []columnHit
}

type columnHit struct {
	left, right int            // [left, right) in screen cells
	headers     map[int]string // content line -> panel key
}

// resolve maps a click at (x, y) to a command. offsets are the scroll
// positions of the column viewports.
func (h hitMap) resolve(x, y int, offsets []int) domain.Command {
	if y == h.barRow && x >= h.barLeft && h.segW > 0 {
		i := (x - h.barLeft) / h.segW
		inGlyph := (x-h.barLeft)%h.segW < h.glyphW
		if i < h.segments && inGlyph {
			return domain.Command{Type: domain.CommandJump, Step: i}
		}
		return domain.Command{}
	}

	if y < h.bodyTop || y >= h.bodyTop+h.bodyHeight {
		return domain.Command{}
	}
	for i, col := range h.columns {
		if x < col.left || x >= col.right {
			continue
		}
		line := y - h.bodyTop
		if i < len(offsets) {
			line += offsets[i]
		}
		if key, ok := col.headers[line]; ok {
			return domain.Command{Type: domain.CommandTogglePanel, Payload: key}
		}
	}
	return domain.Command{}
}

// ── Layout ───────────────────────────────────────────────────────

// geometry computes the hit map skeleton for a frame at a screen size.
// originRows is the height of the drawn origin block, blank line included,
// or 0 when there is none.
func geometry(f compose.Frame, width, height, originRows int) hitMap {
	segments := len(f.Progress.Filled)
	segW := 3
	if segments > 0 {
		segW = min(max((width-2*barLeft)/segments, 1), 3)
	}

	top := headerRows + originRows

	h := hitMap{
		barRow:     rowBar,
		barLeft:    barLeft,
		segW:       segW,
		glyphW:     max(segW-1, 1),
		segments:   segments,
		bodyTop:    top,
		bodyHeight: max(height-top-footerRows, 3),
	}

	n := max(len(f.Columns), 1)
	colW := columnWidth(width, n)
	x := 0
	for range n {
		h.columns = append(h.columns, columnHit{left: x, right: x + colW})
		x += colW + lipgloss.Width(columnGap)
	}
	return h
}

// columnWidth splits the screen between n columns.
func columnWidth(width, n int) int {
	if n <= 1 {
		return max(width, 20)
	}
	gaps := (n - 1) * lipgloss.Width(columnGap)
	return max((width-gaps)/n, 20)
}

// ── Header and footer ────────────────────────────────────────────

func renderHeader(f compose.Frame) string {
	var tabs []string
	if f.Screen == domain.ScreenDivergence {
		tabs = append(tabs,
			tab("Visual", f.Detail == domain.DetailVisual),
			tab("Detailed", f.Detail == domain.DetailDetailed),
		)
	} else {
		tabs = append(tabs,
			tab("Single", f.Layout == domain.LayoutSingle),
			tab("Compare", f.Layout == domain.LayoutCompare),
		)
		if f.Layout == domain.LayoutSingle && len(f.Tabs) > 0 {
			tabs = append(tabs, sepStyle.Render("│"))
			for _, t := range f.Tabs {
				tabs = append(tabs, tab(t.Label, f.Active == t.ID))
			}
		}
	}
	return kickerStyle.Render("ARI Framework") + "  " +
		titleStyle.Render(LineScreenTitle(f.Screen)) + "   " +
		strings.Join(tabs, " ")
}

func tab(label string, on bool) string {
	if on {
		return tabOnStyle.Render(label)
	}
	return tabOffStyle.Render(label)
}

// renderBar draws one glyph run per segment; filled segments take the
// colour of the active side.
func renderBar(f compose.Frame, h hitMap) string {
	color := colorTherapist
	if f.Layout == domain.LayoutSingle {
		color = sideColor(f.Active)
	}
	on := lipgloss.NewStyle().Foreground(color)
	off := lipgloss.NewStyle().Foreground(colorBorder)

	glyph := strings.Repeat("━", h.glyphW)
	gap := strings.Repeat(" ", h.segW-h.glyphW)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", h.barLeft))
	for _, filled := range f.Progress.Filled {
		if filled {
			b.WriteString(on.Render(glyph))
		} else {
			b.WriteString(off.Render(glyph))
		}
		b.WriteString(gap)
	}
	return b.String()
}

func renderCaption(f compose.Frame) string {
	return strings.Repeat(" ", barLeft) +
		mutedStyle.Render(LineExchange(f.Progress)+" · "+LineJumpHint())
}

func renderOrigin(o *compose.Origin, width int) string {
	tag := mutedStyle.Render(strings.ToUpper(o.Tag))
	text := originStyle.Width(max(width-4, 10)).Render("“" + o.Text + "”")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, tag) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

func renderControls(f compose.Frame) string {
	back, next := textStyle, textStyle
	if f.Progress.Step <= 0 {
		back = mutedStyle
	}
	if f.Progress.AtEnd {
		next = mutedStyle
	}
	return buttonStyle.Render(LinePlayButton(f.Progress)) + "  " +
		back.Render("←") + "  " + next.Render("→")
}

// ── Columns ──────────────────────────────────────────────────────

// renderColumn draws one transcript and reports on which content lines
// panel headers landed.
func renderColumn(f compose.Frame, col compose.Column, width int, md *glamour.TermRenderer) (string, map[int]string) {
	var lines []string
	headers := make(map[int]string)
	add := func(block string) {
		lines = append(lines, strings.Split(block, "\n")...)
	}

	if len(f.Columns) > 1 {
		head := lipgloss.NewStyle().Foreground(sideColor(col.Side)).Bold(true)
		add(head.Render(LineColumnTitle(f.Screen, col.Side, col.Title)))
		add("")
	}

	for _, b := range col.Bubbles {
		add(renderBubble(b, width))
		for _, p := range b.Panels {
			headers[len(lines)] = p.Key
			add(renderPanel(p, width))
		}
		add("")
	}

	if col.Metrics != nil {
		add(renderMetrics(*col.Metrics, width))
	}

	if f.Summary != nil {
		add(renderSummary(f.Summary, col.Side, width, md))
	}

	return strings.Join(lines, "\n"), headers
}

func renderBubble(b compose.Bubble, width int) string {
	color := speakerColor(b.Speaker)
	label := lipgloss.NewStyle().Foreground(color).Render(LineSpeaker(b.Speaker, b.HasInterior && len(b.Panels) == 0))

	textW := max(width*3/4, 16)
	body := lipgloss.NewStyle().
		Foreground(colorText).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1).
		Width(textW).
		Render(b.Text)

	block := label + "\n" + body
	if b.Speaker == domain.SpeakerClient {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}
	return block
}

func renderPanel(p compose.Panel, width int) string {
	head := lipgloss.NewStyle().Foreground(colorMuted).Render(LinePanelHeader(p.Title, p.Expanded))
	if !p.Expanded {
		return head
	}

	var b strings.Builder
	b.WriteString(head)
	textW := max(width-4, 12)
	for _, field := range p.Fields {
		b.WriteString("\n")
		b.WriteString(panelFieldLabelStyle.Render("  " + strings.ToUpper(field.Label)))
		b.WriteString("\n")
		b.WriteString(panelTextStyle.Width(textW).Render(field.Text))
	}
	return b.String()
}

// renderMetrics draws the field, the bars and the status label.
func renderMetrics(s metrics.Snapshot, width int) string {
	color := sideColor(s.Side)
	const labelW = 16
	barW := max(width-labelW-2, 10)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithoutPercentage(),
		progress.WithWidth(barW),
	)

	var b strings.Builder
	b.WriteString(renderField(s, width))
	for _, m := range s.Bars {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Width(labelW).Render(m.Label))
		b.WriteString(bar.ViewAs(m.Value))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		statusStyle.Foreground(color).Render(s.Status)))
	return b.String()
}

// renderField draws the semantic field as a filled run inside the full
// ring width.
func renderField(s metrics.Snapshot, width int) string {
	const cells = 20
	n := int(s.Radius / metrics.OuterRadius * cells)
	n = min(max(n, 1), cells)
	pad := (cells - n) / 2

	field := mutedStyle.Render(strings.Repeat("·", pad)) +
		lipgloss.NewStyle().Foreground(sideColor(s.Side)).Render(strings.Repeat("●", n)) +
		mutedStyle.Render(strings.Repeat("·", cells-n-pad))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "("+field+")")
}

func renderSummary(s *compose.Summary, side domain.ScriptID, width int, md *glamour.TermRenderer) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(summaryColor(side)).
		Padding(0, 1).
		Width(max(width-4, 20))

	title := lipgloss.NewStyle().Foreground(summaryColor(side)).Bold(true).Render(s.Title)
	return box.Render(title + "\n" + renderMarkdown(md, s.Body))
}

// renderMarkdown renders with glamour, falling back to the raw text.
func renderMarkdown(md *glamour.TermRenderer, text string) string {
	if md == nil {
		return text
	}
	out, err := md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// newMarkdown builds a renderer wrapping at width.
func newMarkdown(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderIntro is the splash shown before the player starts.
func renderIntro(intro domain.Intro, width int, md *glamour.TermRenderer) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderBanner(width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, kickerStyle.Render(intro.Kicker)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(intro.Title)))
	b.WriteString("\n\n")
	b.WriteString(renderMarkdown(md, intro.Body))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, buttonStyle.Render(LineEnter())))
	return b.String()
}

// joinColumns lays rendered column views side by side.
func joinColumns(views []string) string {
	switch len(views) {
	case 0:
		return ""
	case 1:
		return views[0]
	}
	parts := make([]string, 0, len(views)*2-1)
	for i, v := range views {
		if i > 0 {
			h := lipgloss.Height(v)
			parts = append(parts, sepStyle.Render(strings.TrimSuffix(strings.Repeat(columnGap+"\n", h), "\n")))
		}
		parts = append(parts, v)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// debugFrame is a one-line description used in logs.
func debugFrame(f compose.Frame) string {
	return fmt.Sprintf("%s/%s/%s step=%d/%d cols=%d", f.Screen, f.Layout, f.Detail, f.Progress.Step, f.Progress.MaxStep, len(f.Columns))
}
