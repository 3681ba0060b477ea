// Package repl implements an interactive prompt over Iridium source,
// grounded on the original Rust REPL's `.quit`/`.history` command
// loop. It is extended with a `.program` mode: since a single line is
// rarely a complete `.data`/`.code` program, `.program` collects lines
// until a lone `.` and then assembles and runs the whole buffer.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/irvm/iridium/assembler"
	"github.com/irvm/iridium/scheduler"
	"github.com/irvm/iridium/vm"
)

// REPL holds one interactive session's state: its command history
// and I/O streams. Each `.program` run constructs a fresh *vm.VM,
// since nothing in the core guarantees a VM value is safely reusable
// across independently-assembled programs.
type REPL struct {
	History []string

	in  *bufio.Scanner
	out io.Writer

	// scheduler, when set, runs each `.program`'s VM through its
	// concurrency cap instead of directly on the calling goroutine.
	// Shared across sessions so a -threads override bounds every
	// concurrently running program, not just one session's.
	scheduler *scheduler.Scheduler
}

// New creates a REPL reading from in and writing to out.
func New(in io.Reader, out io.Writer) *REPL {
	return &REPL{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// SetScheduler installs a shared scheduler that subsequent `.program`
// runs submit their VM through, bounding how many run at once.
func (r *REPL) SetScheduler(s *scheduler.Scheduler) {
	r.scheduler = s
}

// Run drives the read-eval-print loop until the input is exhausted or
// a `.quit` command is seen.
func (r *REPL) Run() {
	fmt.Fprintln(r.out, "Welcome to Iridium!")
	for {
		fmt.Fprint(r.out, ">>> ")
		if !r.in.Scan() {
			return
		}
		line := r.in.Text()
		r.History = append(r.History, line)

		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case ".quit", ".q":
			fmt.Fprintln(r.out, "Farewell!")
			return
		case ".history":
			for _, h := range r.History {
				fmt.Fprintln(r.out, h)
			}
		case ".program":
			r.runProgram()
		case "":
			// blank line, nothing to do
		default:
			fmt.Fprintln(r.out, "Invalid input")
		}
	}
}

// runProgram collects source lines until a lone "." terminator, then
// assembles and runs the buffered program against a fresh VM.
func (r *REPL) runProgram() {
	var lines []string
	fmt.Fprintln(r.out, "entering program mode, end with a line containing just '.'")
	for r.in.Scan() {
		line := r.in.Text()
		r.History = append(r.History, line)
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}

	source := strings.Join(lines, "\n")
	img, errs := assembler.Assemble(source, "<repl>")
	if errs.HasErrors() {
		fmt.Fprint(r.out, errs.Error())
		return
	}

	v := vm.New()
	v.AddBytes(img.Bytes())

	var events []vm.VMEvent
	if r.scheduler != nil {
		events = r.scheduler.Submit(v).Wait()
	} else {
		events = v.Run()
	}
	for _, ev := range events {
		fmt.Fprintln(r.out, describeEvent(ev))
	}
}

func describeEvent(ev vm.VMEvent) string {
	switch ev.Kind {
	case vm.EventStart:
		return "Start"
	case vm.EventGracefulStop:
		return fmt.Sprintf("GracefulStop{%d}", ev.Code)
	case vm.EventCrash:
		return fmt.Sprintf("Crash{%d}", ev.Code)
	default:
		return "Unknown"
	}
}
