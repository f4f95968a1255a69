// Package disasm provides the firmware image disassembler orchestration.
package disasm

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/picgodisasm/internal/analysis"
	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/options"
	"github.com/retroenv/picgodisasm/internal/program"
	"github.com/retroenv/picgodisasm/internal/symbols"
	"github.com/retroenv/picgodisasm/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// Disasm disassembles a loaded firmware image.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	prg *program.Program
}

// New creates a disassembler for the image. The symbol table may be nil, the
// hardware vectors the image covers are named after their vector when no
// symbol exists for them yet.
func New(logger *log.Logger, ar arch.Architecture, img *image.Image,
	syms *symbols.Table, opts options.Disassembler) (*Disasm, error) {

	if syms == nil {
		syms = symbols.NewTable()
	}

	prg, err := program.New(ar, img, syms)
	if err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	for _, vector := range ar.Vectors() {
		if _, ok := prg.Instruction(vector.Address); ok && !syms.Has(vector.Address) {
			syms.Add(vector.Address, vector.Name)
		}
	}

	logger.Debug("Program decoded",
		log.String("family", string(ar.Family())),
		log.Int("instructions", len(prg.Instructions())))

	return &Disasm{
		logger:  logger,
		options: opts,
		prg:     prg,
	}, nil
}

// Process analyzes the control flow of the program starting at the hardware
// vectors and writes the annotated listing to the writer.
func (dis *Disasm) Process(ctx context.Context, outputWriter io.Writer) (*program.Program, error) {
	vectors := dis.prg.Vectors()
	starts := make([]int, 0, len(vectors))
	for _, vector := range vectors {
		starts = append(starts, vector.Address)
	}

	reach, err := analysis.ReachableFrom(ctx, dis.logger, dis.prg, starts)
	if err != nil {
		return nil, fmt.Errorf("analyzing reachability: %w", err)
	}

	callStack, err := analysis.ReconstructCallStack(ctx, dis.logger, dis.prg, starts,
		analysis.DefaultCallDepthLimit)
	if err != nil {
		return nil, fmt.Errorf("reconstructing call stack: %w", err)
	}

	analysis.GenerateFlowLabels(dis.prg)

	listing := writer.New(dis.prg, outputWriter, writer.Options{
		FlowComments:    dis.options.FlowComments,
		ShowUnreachable: dis.options.ShowUnreachable,
	})
	if err := listing.Write(reach, callStack); err != nil {
		return nil, fmt.Errorf("writing listing: %w", err)
	}

	dis.logger.Info("Disassembly finished",
		log.Int("instructions", len(dis.prg.Instructions())),
		log.Int("unreachable", reach.UnreachableCount()),
		log.Int("max_call_depth", callStack.MaxDepth()))

	return dis.prg, nil
}

// Program returns the decoded program.
func (dis *Disasm) Program() *program.Program {
	return dis.prg
}
