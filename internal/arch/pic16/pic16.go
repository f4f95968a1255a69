// Package pic16 provides the midrange PIC16 family decoder.
// Midrange devices execute 14 bit wide instruction words and address program
// memory in words, every instruction occupies exactly one word.
package pic16

import (
	"fmt"
	"slices"

	"github.com/retroenv/picgodisasm/internal/arch"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/instruction"
)

const (
	// AddressIncrement is the native address units per program word.
	// Midrange program memory is word addressed.
	AddressIncrement = 1

	// instructionSize is the size of every midrange instruction in words.
	instructionSize = 1

	// ResetVector is the word address execution starts at after a reset.
	ResetVector = 0x0000
	// InterruptVector is the word address of the single interrupt entry point.
	InterruptVector = 0x0004
)

// Compile-time check to ensure PIC16 implements arch.Architecture.
var _ arch.Architecture = (*PIC16)(nil)

// New returns a new PIC16 midrange architecture configuration.
func New() *PIC16 {
	return &PIC16{}
}

// PIC16 implements the arch.Architecture interface for midrange devices.
type PIC16 struct{}

// Family returns the identifier of the family.
func (p *PIC16) Family() arch.Family {
	return arch.PIC16
}

// AddressIncrement returns the native address units per program word.
func (p *PIC16) AddressIncrement() int {
	return AddressIncrement
}

// Decode decodes the 14 bit instruction word at the given word address.
// HEX files store every program word as a little endian byte pair, the byte
// address in the image is twice the word address. Words that match no known
// encoding are kept as DW data words so that flow analysis can treat them as
// plain fall through.
func (p *PIC16) Decode(img *image.Image, address int) (instruction.Params, bool) {
	if address < 0 {
		return instruction.Params{}, false
	}
	word, ok := img.Word(address * 2)
	if !ok {
		return instruction.Params{}, false
	}
	word &= 0x3FFF

	for _, op := range opcodes {
		if word&op.mask != op.value {
			continue
		}
		operands := decodeOperands(op.layout, word)
		return instruction.Params{
			Opcode:   op.name,
			Operands: operands,
			Size:     instructionSize,
			Text:     formatText(op, operands),
			Kinds:    op.kinds,
		}, true
	}

	return instruction.Params{
		Opcode: "DW",
		Size:   instructionSize,
		Text:   fmt.Sprintf("DW 0x%04X", word),
	}, true
}

// CodeAddresses returns all word addresses the image fully covers, ascending.
func (p *PIC16) CodeAddresses(img *image.Image) []int {
	var addresses []int
	for _, segment := range img.Segments() {
		first := (segment.Address + 1) / 2
		last := (segment.Address + len(segment.Data)) / 2 // exclusive
		for address := first; address < last; address++ {
			addresses = append(addresses, address)
		}
	}
	slices.Sort(addresses)
	return slices.Compact(addresses)
}

// Vectors returns the hardware entry points of midrange devices.
func (p *PIC16) Vectors() []arch.Vector {
	return []arch.Vector{
		{Address: ResetVector, Name: "reset"},
		{Address: InterruptVector, Name: "isr"},
	}
}
