package repl

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/irvm/iridium/assembler"
	"github.com/irvm/iridium/vm"
)

// TUI is an optional full-screen front end for a REPL session,
// grounded on the teacher's panel layout: a program source pane on
// the left, register and heap panels on the right, and the output pane
// and command input along the bottom.
type TUI struct {
	App   *tview.Application
	Pages *tview.Pages

	SourceView   *tview.TextView
	RegisterView *tview.TextView
	HeapView     *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	VM      *vm.VM
	program []string
}

// NewTUI creates a new text user interface over a fresh VM.
func NewTUI() *TUI {
	t := &TUI{
		App: tview.NewApplication(),
		VM:  vm.New(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Program ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.HeapView = tview.NewTextView().SetDynamicColors(true)
	t.HeapView.SetBorder(true).SetTitle(" Heap ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel(">>> ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.HeapView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", layout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	if line == "" {
		return
	}

	switch strings.TrimSpace(line) {
	case ".run":
		t.runProgram()
	case ".clear":
		t.program = nil
		t.SourceView.Clear()
	default:
		t.program = append(t.program, line)
		fmt.Fprintln(t.SourceView, line)
	}
	t.RefreshAll()
}

func (t *TUI) runProgram() {
	source := strings.Join(t.program, "\n")
	img, errs := assembler.Assemble(source, "<repl-tui>")
	if errs.HasErrors() {
		fmt.Fprint(t.OutputView, errs.Error())
		return
	}

	t.VM = vm.New()
	t.VM.AddBytes(img.Bytes())
	for _, ev := range t.VM.Run() {
		fmt.Fprintln(t.OutputView, describeEvent(ev))
	}
}

// RefreshAll repaints the register and heap panels from VM state.
func (t *TUI) RefreshAll() {
	t.RegisterView.Clear()
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(t.RegisterView, "$%-2d %-10d $%-2d %-10d $%-2d %-10d $%-2d %-10d\n",
			i, t.VM.Registers.Get(uint8(i)),
			i+1, t.VM.Registers.Get(uint8(i+1)),
			i+2, t.VM.Registers.Get(uint8(i+2)),
			i+3, t.VM.Registers.Get(uint8(i+3)))
	}

	t.HeapView.Clear()
	fmt.Fprintf(t.HeapView, "size: %d bytes\n", t.VM.Heap.Len())
}

// Run starts the tview application's event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop ends the application's event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
