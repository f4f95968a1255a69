// Package pic18 provides the PIC18 family decoder.
// PIC18 devices execute 16 bit wide instruction words but address program
// memory in bytes, instructions live at even byte addresses and occupy two or
// four bytes. GOTO, CALL, MOVFF and LFSR carry a second instruction word.
package pic18

import (
	"fmt"
	"slices"

	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/instruction"
)

const (
	// AddressIncrement is the native address units per program word.
	// PIC18 program memory is byte addressed while operands count words.
	AddressIncrement = 2

	// ResetVector is the byte address execution starts at after a reset.
	ResetVector = 0x0000
	// HighInterruptVector is the byte address of the high priority interrupt entry.
	HighInterruptVector = 0x0008
	// LowInterruptVector is the byte address of the low priority interrupt entry.
	LowInterruptVector = 0x0018
)

// Compile-time check to ensure PIC18 implements arch.Architecture.
var _ arch.Architecture = (*PIC18)(nil)

// New returns a new PIC18 architecture configuration.
func New() *PIC18 {
	return &PIC18{}
}

// PIC18 implements the arch.Architecture interface for PIC18 devices.
type PIC18 struct{}

// Family returns the identifier of the family.
func (p *PIC18) Family() arch.Family {
	return arch.PIC18
}

// AddressIncrement returns the native address units per program word.
func (p *PIC18) AddressIncrement() int {
	return AddressIncrement
}

// Decode decodes the instruction at the given even byte address. Words that
// match no known encoding and two word instructions with a malformed second
// word are kept as DW data words.
func (p *PIC18) Decode(img *image.Image, address int) (instruction.Params, bool) {
	if address < 0 || address%2 != 0 {
		return instruction.Params{}, false
	}
	first, ok := img.Word(address)
	if !ok {
		return instruction.Params{}, false
	}

	for _, op := range opcodes {
		if first&op.mask != op.value {
			continue
		}
		params, ok := decodeMatch(img, address, op, first)
		if !ok {
			break
		}
		return params, true
	}

	return instruction.Params{
		Opcode: "DW",
		Size:   2,
		Text:   fmt.Sprintf("DW 0x%04X", first),
	}, true
}

// decodeMatch decodes a matched opcode table entry, reading the second
// instruction word for two word encodings.
func decodeMatch(img *image.Image, address int, op opcode, first uint16) (instruction.Params, bool) {
	var second uint16
	if op.words == 2 {
		var ok bool
		second, ok = img.Word(address + 2)
		// the second word of a two word instruction always starts with 1111
		if !ok || second&0xF000 != 0xF000 {
			return instruction.Params{}, false
		}
	}

	operands := decodeOperands(op.layout, first, second)

	// BRA and RCALL are relative on the wire but are normalized to the
	// absolute word operand k that GOTO and CALL use
	if op.layout == layoutBranch11 {
		operands["k"] = (address + 2*(operands["n"]+1)) / 2
	}

	return instruction.Params{
		Opcode:   op.name,
		Operands: operands,
		Size:     op.words * 2,
		Text:     formatText(op, operands, address),
		Kinds:    op.kinds,
	}, true
}

// CodeAddresses returns all even byte addresses the image fully covers,
// ascending.
func (p *PIC18) CodeAddresses(img *image.Image) []int {
	var addresses []int
	for _, segment := range img.Segments() {
		first := segment.Address
		if first%2 != 0 {
			first++
		}
		for address := first; address+1 < segment.Address+len(segment.Data); address += 2 {
			addresses = append(addresses, address)
		}
	}
	slices.Sort(addresses)
	return slices.Compact(addresses)
}

// Vectors returns the hardware entry points of PIC18 devices.
func (p *PIC18) Vectors() []arch.Vector {
	return []arch.Vector{
		{Address: ResetVector, Name: "reset"},
		{Address: HighInterruptVector, Name: "isr_high"},
		{Address: LowInterruptVector, Name: "isr_low"},
	}
}
