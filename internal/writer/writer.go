// Package writer writes the annotated control flow listing of a program.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/picgodisasm/internal/analysis"
	"github.com/retroenv/picgodisasm/internal/instruction"
	"github.com/retroenv/picgodisasm/internal/program"
)

const textColumnWidth = 24

// Options of the listing writer.
type Options struct {
	FlowComments    bool // annotate instructions with their outgoing edges
	ShowUnreachable bool // mark instructions the entry points cannot reach
}

// Writer writes the annotated listing of a disassembled program.
type Writer struct {
	prg     *program.Program
	options Options
	writer  io.Writer
}

// New creates a new listing writer.
func New(prg *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		prg:     prg,
		options: options,
		writer:  writer,
	}
}

// Write writes the listing: a header, a label line for every named address and
// one line per instruction annotated with its outgoing control flow edges.
func (w *Writer) Write(reach *analysis.Reachability, callStack *analysis.CallStack) error {
	if err := w.writeHeader(reach, callStack); err != nil {
		return err
	}

	for _, ins := range w.prg.Instructions() {
		if err := w.writeInstruction(ins, reach); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeHeader(reach *analysis.Reachability, callStack *analysis.CallStack) error {
	lines := []string{
		fmt.Sprintf("; %s control flow listing", w.prg.Arch().Family()),
		fmt.Sprintf("; instructions: %d", len(w.prg.Instructions())),
		fmt.Sprintf("; unreachable: %d", reach.UnreachableCount()),
		fmt.Sprintf("; max call depth: %d", callStack.MaxDepth()),
	}
	if callStack.Recursive() {
		lines = append(lines, "; recursion detected, call depth is a lower bound")
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing listing header: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeInstruction(ins *instruction.Instruction, reach *analysis.Reachability) error {
	address := ins.Address()
	if name, ok := w.prg.Symbols().Name(address); ok {
		if _, err := fmt.Fprintf(w.writer, "\n%s:\n", name); err != nil {
			return fmt.Errorf("writing label: %w", err)
		}
	}

	line := fmt.Sprintf("  0x%04X  %s", address, ins.Text())
	if comment := w.lineComment(ins, reach); comment != "" {
		if padding := textColumnWidth - len(ins.Text()); padding > 0 {
			line += strings.Repeat(" ", padding)
		} else {
			line += " "
		}
		line += "; " + comment
	}

	if _, err := fmt.Fprintln(w.writer, line); err != nil {
		return fmt.Errorf("writing listing line: %w", err)
	}
	return nil
}

// lineComment renders the edge annotations of one instruction. A plain fall
// through to the next instruction is left unannotated to keep the listing
// readable.
func (w *Writer) lineComment(ins *instruction.Instruction, reach *analysis.Reachability) string {
	var parts []string
	if w.options.ShowUnreachable && !reach.Reachable(ins.Address()) {
		parts = append(parts, "unreachable")
	}
	if !w.options.FlowComments {
		return strings.Join(parts, ", ")
	}

	transitions := ins.Transitions()
	if len(transitions) == 0 {
		parts = append(parts, "returns")
	}

	for i, transition := range transitions {
		switch {
		case transition.CallDepthChange() > 0:
			parts = append(parts, "calls "+w.target(transition))

		case ins.Kinds().Is(instruction.ConditionalSkip) && i == 1:
			parts = append(parts, "skip -> "+w.target(transition))

		case transition.NonLocal() || len(transitions) > 1:
			parts = append(parts, "-> "+w.target(transition))
		}
	}
	return strings.Join(parts, ", ")
}

// target renders a transition destination, preferring its symbol name.
func (w *Writer) target(transition *instruction.Transition) string {
	description := fmt.Sprintf("0x%04X", transition.NextAddress())
	if name, ok := w.prg.Symbols().Name(transition.NextAddress()); ok {
		description += " = " + name
	}
	if _, ok := transition.NextInstruction(); !ok {
		description += " (unresolved)"
	}
	return description
}
