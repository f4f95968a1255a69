// Package arch contains types and functions used for multi family support.
// It acts as a bridge between the disassembler and the family specific
// decoders.
package arch

import (
	"fmt"
	"strings"

	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/instruction"
)

// Family identifies a supported PIC microcontroller family.
type Family string

const (
	// PIC16 is the midrange family with 14 bit wide, word addressed program memory.
	PIC16 Family = "pic16"
	// PIC18 is the high end 8 bit family with 16 bit wide, byte addressed program memory.
	PIC18 Family = "pic18"
)

// FamilyFromString parses a family name as given on the command line.
func FamilyFromString(s string) (Family, error) {
	switch family := Family(strings.ToLower(s)); family {
	case PIC16, PIC18:
		return family, nil
	default:
		return "", fmt.Errorf("unsupported family: %s. Valid options: %s, %s", s, PIC16, PIC18)
	}
}

// Vector is a hardware entry point of the program image.
type Vector struct {
	Address int
	Name    string
}

// Architecture contains family specific information.
type Architecture interface {
	// Family returns the identifier of the family.
	Family() Family
	// AddressIncrement returns the native address units per program word.
	AddressIncrement() int
	// Decode decodes the instruction at the given address,
	// false if the image does not cover the address.
	Decode(img *image.Image, address int) (instruction.Params, bool)
	// CodeAddresses returns all decodable instruction addresses of the image
	// in ascending order.
	CodeAddresses(img *image.Image) []int
	// Vectors returns the hardware entry points of the family.
	Vectors() []Vector
}
