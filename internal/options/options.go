// Package options contains the program options.
package options

import (
	"github.com/retroenv/picgodisasm/internal/arch"
)

// Program options of the disassembler.
type Program struct {
	Input   string // firmware image to disassemble
	Output  string // output listing file, printed on console if empty
	Symbols string // optional symbol listing file
	Batch   string // batch path and file mask, e.g. *.hex

	Family        string // PIC family to disassemble for
	Binary        bool   // read input as raw binary instead of Intel HEX
	Debug         bool
	Quiet         bool
	NoComments    bool // omit flow edge comments in the listing
	NoUnreachable bool // omit unreachable code markers in the listing
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	Family arch.Family

	Binary          bool
	FlowComments    bool // annotate instructions with their outgoing edges
	ShowUnreachable bool // mark instructions the entry points cannot reach
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler(family arch.Family) Disassembler {
	return Disassembler{
		Family: family,

		FlowComments:    true,
		ShowUnreachable: true,
	}
}
