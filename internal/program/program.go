// Package program provides the instruction arena of a loaded firmware image.
// It decodes every code address once at load time and hands out the canonical
// instruction per address, implementing the store contract of the instruction
// package.
package program

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/instruction"
	"github.com/retroenv/picgodisasm/internal/symbols"
)

// Compile-time check to ensure Program implements instruction.Store.
var _ instruction.Store = (*Program)(nil)

// Program holds the canonical instruction per address of a disassembled
// image. It is populated once at construction and read only afterwards,
// lookups are safe for concurrent use.
type Program struct {
	arch    arch.Architecture
	symbols *symbols.Table

	instructions map[int]*instruction.Instruction
	sorted       []*instruction.Instruction
}

// New decodes all code addresses of the image and interns one instruction per
// address. The symbol table is used for address descriptions and may be
// empty, it must not be nil.
func New(ar arch.Architecture, img *image.Image, syms *symbols.Table) (*Program, error) {
	prg := &Program{
		arch:         ar,
		symbols:      syms,
		instructions: make(map[int]*instruction.Instruction),
	}

	for _, address := range ar.CodeAddresses(img) {
		params, ok := ar.Decode(img, address)
		if !ok {
			continue
		}

		ins, err := instruction.New(prg, address, ar.AddressIncrement(), params)
		if err != nil {
			return nil, fmt.Errorf("interning instruction at address %04x: %w", address, err)
		}
		prg.instructions[address] = ins
		prg.sorted = append(prg.sorted, ins)
	}

	slices.SortFunc(prg.sorted, (*instruction.Instruction).Compare)
	return prg, nil
}

// Instruction returns the canonical instruction at the given address.
func (prg *Program) Instruction(address int) (*instruction.Instruction, bool) {
	ins, ok := prg.instructions[address]
	return ins, ok
}

// AddressDescription returns a human readable description of an address, for
// example "0x0006 = setupUserId0+0x1" when a symbol at or before the address
// is known. It falls back to the decimal rendering of the raw address and
// never fails, even for negative input.
func (prg *Program) AddressDescription(address int) string {
	if address >= 0 {
		if name, offset, ok := prg.symbols.Nearest(address); ok {
			if offset == 0 {
				return fmt.Sprintf("0x%04X = %s", address, name)
			}
			return fmt.Sprintf("0x%04X = %s+0x%x", address, name, offset)
		}
	}
	return strconv.Itoa(address)
}

// Instructions returns all instructions in program order.
func (prg *Program) Instructions() []*instruction.Instruction {
	return prg.sorted
}

// Symbols returns the symbol table of the program.
func (prg *Program) Symbols() *symbols.Table {
	return prg.symbols
}

// Arch returns the architecture the program was decoded for.
func (prg *Program) Arch() arch.Architecture {
	return prg.arch
}

// Vectors returns the hardware entry points of the family.
func (prg *Program) Vectors() []arch.Vector {
	return prg.arch.Vectors()
}
