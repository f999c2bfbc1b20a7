package session

import (
	"context"
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/pixyterm/pixy/internal/backend"
	"github.com/pixyterm/pixy/internal/editor"
	"github.com/pixyterm/pixy/internal/historystore"
	"github.com/pixyterm/pixy/internal/keybind"
	"github.com/pixyterm/pixy/internal/resume"
	"github.com/pixyterm/pixy/internal/runtimeconfig"
	"github.com/pixyterm/pixy/internal/streamrender"
	"github.com/pixyterm/pixy/internal/theme"
	"github.com/pixyterm/pixy/internal/transcript"
)

// RunPhase names which of spec.md §3's session states the runtime is in.
type RunPhase int

const (
	PhaseIdle RunPhase = iota
	PhaseStreaming
	PhaseInterrupting
	PhaseForceExit
)

// msgSender is the subset of *tea.Program's API the runtime needs to post
// asynchronous stream events back to the goroutine that owns state mutation.
// *tea.Program satisfies it structurally; tests may substitute a fake that
// applies messages synchronously.
type msgSender interface {
	Send(tea.Msg)
}

// streamDeltaMsg carries one backend.StreamUpdate produced while a
// generation is running in the background. It is sent to the registered
// msgSender so folding happens on the same goroutine as every other state
// mutation (the bubbletea Update loop in production).
type streamDeltaMsg struct {
	update backend.StreamUpdate
}

// streamCompleteMsg reports a generation's terminal outcome: either the
// final message list or the error the Backend call returned.
type streamCompleteMsg struct {
	msgs []backend.Message
	err  error
}

// Runtime is the session event-loop orchestrator: it owns the input editor,
// the transcript, the stream folder, the follow-up queue, the backend seam,
// and the phase state machine, and wires HandleStreamingEvent/
// HandleIdleEvent's pure dispatch into actual backend calls. It does not
// itself own a tea.Program; the thin adapter Program (program.go) drives it
// from bubbletea's event loop and registers itself via SetSender, matching the
// teacher's App/tea.Program split in internal/app/app.go: generations run in
// a background goroutine and report back as tea.Msg values rather than
// blocking the caller.
type Runtime struct {
	Backend  backend.Backend
	Config   runtimeconfig.ResolvedRuntimeConfig
	Bindings keybind.Bindings
	Theme    theme.Theme
	History  *historystore.Store

	state  RuntimeState
	folder *streamrender.Folder
	abort  *backend.AbortController
	phase  RunPhase
	picker *resume.Picker

	sender    msgSender
	wg        sync.WaitGroup
	runCtx    context.Context
	sawUpdate bool
}

// NewRuntime constructs a Runtime ready to enter PhaseIdle.
func NewRuntime(b backend.Backend, cfg runtimeconfig.ResolvedRuntimeConfig, bindings keybind.Bindings, th theme.Theme, hist *historystore.Store, lookup editor.ImageLookup) *Runtime {
	histRing := editor.NewHistoryRing(10000)
	if hist != nil {
		if entries, err := hist.Load(); err == nil {
			histRing.Load(entries)
		}
	}

	r := &Runtime{
		Backend:  b,
		Config:   cfg,
		Bindings: bindings,
		Theme:    th,
		History:  hist,
		state: RuntimeState{
			Editor:      editor.New(histRing),
			Transcript:  &transcript.Transcript{},
			Followups:   &editor.FollowupQueue{},
			ImageLookup: lookup,
			Status:      "ok",
		},
		folder: streamrender.NewFolder(&transcript.Transcript{}),
		phase:  PhaseIdle,
	}
	r.folder = streamrender.NewFolder(r.state.Transcript)
	return r
}

// SetSender registers the bubbletea program (or test fake) used to post
// streamDeltaMsg/streamCompleteMsg values back to the owning goroutine.
// *tea.Program satisfies msgSender structurally. Must be called before the
// first Submit/resume in production; tests may leave it nil, in which case
// background generations apply their own messages directly (see send).
func (r *Runtime) SetSender(s msgSender) {
	r.sender = s
}

// Wait blocks until any in-flight background generation has finished. Tests
// that don't register a sender use this to observe post-stream state
// deterministically.
func (r *Runtime) Wait() {
	r.wg.Wait()
}

// Deliver applies a streamDeltaMsg/streamCompleteMsg to runtime state. It
// must only be called from the goroutine that owns state mutation — the
// bubbletea Update loop in production (see session.Program.Update), or the
// background goroutine itself when no sender is registered.
func (r *Runtime) Deliver(msg tea.Msg) {
	switch m := msg.(type) {
	case streamDeltaMsg:
		r.folder.Apply(streamUpdateToFolderUpdate(m.update), true)
		r.sawUpdate = true
	case streamCompleteMsg:
		r.finishStream(m.msgs, m.err)
	}
}

// send posts msg to the registered sender, or applies it directly when no
// sender is registered (so callers that never wire a tea.Program, such as
// unit tests driving Runtime through Wait(), still observe the effect).
func (r *Runtime) send(msg tea.Msg) {
	if r.sender != nil {
		r.sender.Send(msg)
		return
	}
	r.Deliver(msg)
}

// Phase returns the current session state.
func (r *Runtime) Phase() RunPhase {
	return r.phase
}

// Status returns the current status-line text.
func (r *Runtime) Status() string {
	return r.state.Status
}

// State exposes the mutable dispatch state for tests and the tea.Model
// adapter. Callers outside this package should treat it as read-mostly
// except via HandleKey/HandleMouseScroll/HandlePaste.
func (r *Runtime) State() *RuntimeState {
	return &r.state
}

// HandleKey routes a single key event through the precedence dispatch
// appropriate to the current phase.
func (r *Runtime) HandleKey(k KeyEvent) StreamingEventOutcome {
	ev := Event{Kind: EventKey, Key: k}
	return r.dispatch(ev)
}

// HandleMouseScroll routes a mouse-scroll event (up=true scrolls/navigates
// upward).
func (r *Runtime) HandleMouseScroll(up bool) StreamingEventOutcome {
	kind := EventMouseScrollDown
	if up {
		kind = EventMouseScrollUp
	}
	return r.dispatch(Event{Kind: kind})
}

// HandlePaste routes a paste payload through the precedence dispatch.
func (r *Runtime) HandlePaste(payload string) StreamingEventOutcome {
	return r.dispatch(Event{Kind: EventPaste, PastePayload: payload})
}

func (r *Runtime) dispatch(ev Event) StreamingEventOutcome {
	switch r.phase {
	case PhaseStreaming, PhaseInterrupting:
		outcome := HandleStreamingEvent(ev, r.Bindings, r.abort, &r.state)
		if outcome.ForceExit {
			r.phase = PhaseForceExit
		}
		if outcome.Interrupted {
			r.phase = PhaseInterrupting
		}
		return outcome
	default:
		outcome := HandleIdleEvent(ev, r.Bindings, &r.state)
		if outcome.ForceExit {
			r.phase = PhaseForceExit
		}
		return outcome
	}
}

// Submit handles an Idle-phase Enter: slash-command interception, history
// recording, and starting the backend stream. Only valid in PhaseIdle. It
// returns as soon as the generation has been dispatched to a background
// goroutine; it never blocks on the Backend call itself.
func (r *Runtime) Submit(ctx context.Context) error {
	if r.phase != PhaseIdle {
		return fmt.Errorf("session: submit called outside Idle phase")
	}

	payload := r.state.Editor.TakeInputPayload()
	text := payload.Display
	if text == "" {
		return nil
	}

	r.state.Editor.RecordInputHistory(text)
	r.persistHistory()

	if cmd := ParseSlashCommand(text); cmd.Kind != SlashNone {
		return r.runSlashCommand(ctx, cmd)
	}

	r.state.Transcript.Append(transcript.UserInput, text)

	var blocks []backend.ContentPart
	for _, img := range payload.Images {
		blocks = append(blocks, backend.ImageContent{MimeType: img.MimeType, Data: img.Data})
	}

	return r.startStream(ctx, func(ctx context.Context, onUpdate backend.OnUpdate) ([]backend.Message, error) {
		return r.Backend.PromptStreamWithBlocks(ctx, payload.Expanded, blocks, onUpdate)
	})
}

func (r *Runtime) persistHistory() {
	if r.History == nil {
		return
	}
	if err := r.History.Record(r.state.Editor.HistoryEntries()); err != nil {
		r.state.Status = "history write failed: " + err.Error()
	}
}

// startStream launches call in a background goroutine, deriving the context
// it receives from a fresh AbortController's Signal() rather than the
// caller's ctx directly — so abort() (HandleStreamingEvent's Interrupt
// branch) actually cancels the context the Backend call observes. Deltas and
// the terminal result are posted back via send/Deliver, never applied
// in-line on the caller's goroutine: the cooperative event loop in
// session.Program never blocks on a generation in flight.
func (r *Runtime) startStream(ctx context.Context, call func(context.Context, backend.OnUpdate) ([]backend.Message, error)) error {
	r.abort = backend.NewAbortController(ctx)
	r.runCtx = ctx
	r.phase = PhaseStreaming
	r.folder = streamrender.NewFolder(r.state.Transcript)
	r.state.Status = "streaming..."
	r.sawUpdate = false

	signal := r.abort.Signal()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		msgs, err := call(signal, func(u backend.StreamUpdate) {
			r.send(streamDeltaMsg{update: u})
		})
		r.send(streamCompleteMsg{msgs: msgs, err: err})
	}()

	return nil
}

// finishStream runs on the owning goroutine (via Deliver) once a generation
// completes: it records the final transcript state, resolves the interrupt
// vs. ok status, returns to PhaseIdle, and, if any follow-ups are queued,
// immediately starts one new generation whose prompt is every queued
// follow-up joined by newlines (appended as a single UserInput line). Queued
// entries are not sent one generation at a time.
func (r *Runtime) finishStream(msgs []backend.Message, err error) {
	interrupted := r.phase == PhaseInterrupting

	// An error surfacing from a Backend call whose context we just cancelled
	// via abort() is the expected shape of cancellation (§5 "Cancellation
	// semantics"), not a failure to report to the user.
	if err != nil && !interrupted {
		r.appendError("[error] "+err.Error(), "prompt failed: "+err.Error())
		r.phase = PhaseIdle
		return
	}

	if err == nil && !r.sawUpdate && len(msgs) > 0 {
		r.state.Transcript.Lines = append(r.state.Transcript.Lines, RenderMessages(msgs)...)
	}

	if interrupted {
		r.state.Status = "interrupted"
	} else {
		r.state.Status = "ok"
	}
	r.phase = PhaseIdle

	if joined, ok := r.state.Followups.Dequeue(); ok {
		r.state.Transcript.Append(transcript.UserInput, joined)
		_ = r.startStream(r.runCtx, func(ctx context.Context, onUpdate backend.OnUpdate) ([]backend.Message, error) {
			return r.Backend.PromptStreamWithBlocks(ctx, joined, nil, onUpdate)
		})
	}
}

func (r *Runtime) appendError(transcriptLine, status string) {
	r.state.Transcript.Append(transcript.Normal, transcriptLine)
	r.state.Status = status
}

func streamUpdateToFolderUpdate(u backend.StreamUpdate) streamrender.Update {
	switch u.Kind {
	case backend.AssistantTextDelta:
		return streamrender.Update{Kind: streamrender.AssistantTextDelta, Text: u.Text}
	case backend.AssistantLine:
		return streamrender.Update{Kind: streamrender.AssistantLine, Text: u.Text}
	default:
		return streamrender.Update{Kind: streamrender.ToolLine, Text: u.Text}
	}
}

func (r *Runtime) runSlashCommand(ctx context.Context, cmd SlashCommand) error {
	switch cmd.Kind {
	case SlashNew:
		status, err := r.Backend.NewSession(ctx)
		if err != nil {
			r.appendError("[error] "+err.Error(), "new session failed: "+err.Error())
			return nil
		}
		rebuilt := &transcript.Transcript{}
		for _, l := range r.state.Transcript.Lines {
			if l.Kind == transcript.Overlay {
				rebuilt.Lines = append(rebuilt.Lines, l)
			}
		}
		r.state.Transcript = rebuilt
		r.folder = streamrender.NewFolder(r.state.Transcript)
		r.state.Status = status
		return nil

	case SlashContinue:
		return r.startStream(ctx, func(ctx context.Context, onUpdate backend.OnUpdate) ([]backend.Message, error) {
			return r.Backend.ContinueRunStream(ctx, onUpdate)
		})

	case SlashResume:
		return r.runResume(ctx, cmd.Arg)

	case SlashSession:
		r.state.Status = r.Backend.SessionFile()
		return nil

	case SlashHelp:
		r.state.Transcript.Append(transcript.Normal, helpText(r.Bindings))
		return nil

	case SlashExit:
		r.phase = PhaseForceExit
		return nil
	}
	return nil
}

func (r *Runtime) runResume(ctx context.Context, arg string) error {
	if arg == "" {
		picker, err := resume.NewPicker(ctx, r.Backend, resume.DefaultListLimit)
		if err != nil {
			r.appendError("[resume_error] "+err.Error(), "resume failed: "+err.Error())
			return nil
		}
		r.picker = picker
		return nil
	}

	candidates, err := r.Backend.RecentResumableSessions(ctx, resume.DefaultListLimit)
	if err != nil {
		r.appendError("[resume_error] "+err.Error(), "resume failed: "+err.Error())
		return nil
	}

	result := resume.ParseArg(arg, candidates)
	switch result.Outcome {
	case resume.OutcomeError:
		r.appendError(result.Err, "resume failed: selection out of range")
		return nil
	case resume.OutcomeResolved:
		return r.completeResume(ctx, result.SessionRef)
	}
	return nil
}

// ConfirmPicker applies the currently active overlay's selection, if any.
func (r *Runtime) ConfirmPicker(ctx context.Context) error {
	if r.picker == nil {
		return nil
	}
	ref, ok := r.picker.Confirm()
	r.picker = nil
	if !ok {
		return nil
	}
	return r.completeResume(ctx, ref)
}

// CancelPicker closes the overlay without a selection.
func (r *Runtime) CancelPicker() {
	if r.picker != nil {
		r.picker.Cancel()
		r.picker = nil
	}
}

// Picker exposes the active resume overlay, or nil if none is open.
func (r *Runtime) Picker() *resume.Picker {
	return r.picker
}

func (r *Runtime) completeResume(ctx context.Context, ref string) error {
	sessionRef := ref
	status, err := r.Backend.ResumeSession(ctx, &sessionRef)
	if err != nil {
		r.appendError("[resume_error] "+err.Error(), "resume failed: "+err.Error())
		return nil
	}
	r.state.Status = status

	msgs, err := r.Backend.SessionMessages(ctx)
	if err == nil && msgs != nil {
		rebuilt := &transcript.Transcript{}
		// Preserve prior Overlay (welcome) lines per the Open Question
		// decision recorded in DESIGN.md.
		for _, l := range r.state.Transcript.Lines {
			if l.Kind == transcript.Overlay {
				rebuilt.Lines = append(rebuilt.Lines, l)
			}
		}
		rebuilt.Lines = append(rebuilt.Lines, RenderMessages(msgs)...)
		r.state.Transcript = rebuilt
		r.folder = streamrender.NewFolder(r.state.Transcript)
	}
	return nil
}

func helpText(b keybind.Bindings) string {
	out := "Commands: /new /continue /resume [N|path] /session /help /exit\nKeybindings:"
	for _, a := range keybind.SortedActions() {
		labels := b[a]
		if len(labels) == 0 {
			continue
		}
		out += "\n  " + string(a) + ": " + labels[0]
	}
	return out
}
