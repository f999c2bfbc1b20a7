package session

import (
	"context"
	"time"
	"unicode"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/pixyterm/pixy/internal/transcript"
)

// workingTickInterval is the animation cadence for the working-line spinner
// while a generation is in flight, per spec.md §5's four-way select model
// (terminal events, stream updates, periodic tick, stream future).
const workingTickInterval = 120 * time.Millisecond

type workingTickMsg struct{}

func workingTick() tea.Cmd {
	return tea.Tick(workingTickInterval, func(time.Time) tea.Msg {
		return workingTickMsg{}
	})
}

// Program adapts Runtime to bubbletea's tea.Model, translating tea.Msg
// values into the Event/KeyEvent envelope HandleStreamingEvent and
// HandleIdleEvent dispatch over, and rendering the projected transcript,
// input line, status bar, and resume overlay each frame. It mirrors the
// teacher's App/tea.Program split in internal/app/app.go: Runtime owns the
// orchestration, Program only owns the bubbletea plumbing.
type Program struct {
	rt     *Runtime
	ctx    context.Context
	width  int
	height int
	tick   int
}

// NewProgram wraps rt for use with tea.NewProgram.
func NewProgram(ctx context.Context, rt *Runtime) *Program {
	return &Program{rt: rt, ctx: ctx, width: 80, height: 24}
}

func (p *Program) Init() tea.Cmd {
	return workingTick()
}

func (p *Program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case workingTickMsg:
		p.tick++
		if p.rt.Phase() == PhaseForceExit {
			return p, tea.Quit
		}
		return p, workingTick()

	case tea.KeyPressMsg:
		return p.handleKeyMsg(msg.String(), false)

	case tea.KeyReleaseMsg:
		return p.handleKeyMsg(msg.String(), true)

	case tea.MouseWheelMsg:
		up := msg.Button == tea.MouseWheelUp
		p.rt.HandleMouseScroll(up)
		return p, nil

	case tea.PasteMsg:
		p.rt.HandlePaste(string(msg))
		return p, nil

	case streamDeltaMsg:
		p.rt.Deliver(msg)
		return p, nil

	case streamCompleteMsg:
		p.rt.Deliver(msg)
		if p.rt.Phase() == PhaseForceExit {
			return p, tea.Quit
		}
		return p, nil
	}

	return p, nil
}

func (p *Program) handleKeyMsg(label string, release bool) (tea.Model, tea.Cmd) {
	if p.rt.Picker() != nil {
		return p.handlePickerKey(label)
	}

	k := KeyEvent{Label: label, IsRelease: release}
	if r, size := utf8.DecodeRuneInString(label); size > 0 && size == len(label) && r != utf8.RuneError && unicode.IsPrint(r) {
		k.Rune, k.HasRune = r, true
	} else if label == "space" {
		k.Rune, k.HasRune = ' ', true
	}
	out := p.rt.HandleKey(k)
	if out.ForceExit {
		return p, tea.Quit
	}

	if label == "enter" && p.rt.Phase() == PhaseIdle {
		if err := p.rt.Submit(p.ctx); err != nil {
			return p, nil
		}
		if p.rt.Phase() == PhaseForceExit {
			return p, tea.Quit
		}
	}

	return p, nil
}

func (p *Program) handlePickerKey(label string) (tea.Model, tea.Cmd) {
	picker := p.rt.Picker()
	switch label {
	case "up":
		picker.MoveUp()
	case "down":
		picker.MoveDown()
	case "enter":
		if err := p.rt.ConfirmPicker(p.ctx); err != nil {
			return p, nil
		}
	case "esc", "escape":
		p.rt.CancelPicker()
	}
	return p, nil
}

func (p *Program) View() tea.View {
	if picker := p.rt.Picker(); picker != nil {
		return tea.NewView(p.renderPicker(picker))
	}

	st := p.rt.State()
	viewportRows := p.height - 2
	if viewportRows < 1 {
		viewportRows = 1
	}

	var workingLine string
	switch p.rt.Phase() {
	case PhaseStreaming:
		workingLine = transcript.WorkingLine(transcript.PhaseStreaming, p.tick, "esc", p.rt.Theme)
	case PhaseInterrupting:
		workingLine = transcript.WorkingLine(transcript.PhaseInterrupting, p.tick, "esc", p.rt.Theme)
	}

	lines := transcript.VisibleTranscriptLines(transcript.ProjectionInput{
		Lines:            st.Transcript.Lines,
		ViewportRows:     viewportRows,
		ViewportCols:     p.width,
		ShowToolResults:  true,
		ShowThinking:     true,
		WorkingLine:      workingLine,
		ScrollFromBottom: st.ScrollFromBottom,
		Theme:            p.rt.Theme,
	})

	body := ""
	for i, l := range lines {
		if i > 0 {
			body += "\n"
		}
		body += l
	}

	inputStyle := lipgloss.NewStyle().Foreground(p.rt.Theme.Text).Border(lipgloss.RoundedBorder()).BorderForeground(p.rt.Theme.Border)
	inputLine := inputStyle.Render(st.Editor.Value())

	statusStyle := lipgloss.NewStyle().Foreground(p.rt.Theme.Muted)
	statusLine := statusStyle.Render(st.Status)

	return tea.NewView(body + "\n" + inputLine + "\n" + statusLine)
}

func (p *Program) renderPicker(picker interface{ Lines() []string }) string {
	style := lipgloss.NewStyle().Foreground(p.rt.Theme.Accent)
	out := style.Render("Resume a session:")
	for _, l := range picker.Lines() {
		out += "\n" + l
	}
	return out
}
