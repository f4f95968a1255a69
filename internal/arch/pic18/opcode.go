package pic18

import (
	"fmt"

	"github.com/retroenv/picgodisasm/internal/instruction"
)

// operandLayout describes where the operands live in the instruction word,
// two word instructions carry additional operand bits in their second word.
type operandLayout uint8

const (
	layoutNone           operandLayout = iota
	layoutFileAccess                   // f in bits 0-7, access select a in bit 8
	layoutFileDestAccess               // f in bits 0-7, a in bit 8, destination select d in bit 9
	layoutBitFileAccess                // f in bits 0-7, a in bit 8, bit number b in bits 9-11
	layoutLiteral8                     // k in bits 0-7
	layoutLiteral4                     // k in bits 0-3
	layoutBranch8                      // signed word offset n in bits 0-7
	layoutBranch11                     // signed word offset n in bits 0-10
	layoutLongTarget                   // absolute word address k over both words
	layoutMoveFile                     // source and destination file over both words
	layoutLoadFSR                      // FSR number and 12 bit literal over both words
)

// opcode describes one PIC18 instruction encoding.
type opcode struct {
	mask   uint16
	value  uint16
	name   string
	layout operandLayout
	kinds  instruction.Kind
	words  int // instruction words occupied, 1 or 2
}

// opcodes contains the PIC18 instruction set. Encodings with fixed words are
// listed before the sparser masks so that the first match wins.
var opcodes = []opcode{
	{0xFFFF, 0x0000, "NOP", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0003, "SLEEP", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0004, "CLRWDT", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0005, "PUSH", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0006, "POP", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0007, "DAW", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0008, "TBLRD*", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x0009, "TBLRD*+", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000A, "TBLRD*-", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000B, "TBLRD+*", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000C, "TBLWT*", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000D, "TBLWT*+", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000E, "TBLWT*-", layoutNone, instruction.Plain, 1},
	{0xFFFF, 0x000F, "TBLWT+*", layoutNone, instruction.Plain, 1},
	{0xFFFE, 0x0010, "RETFIE", layoutNone, instruction.Return, 1},
	{0xFFFE, 0x0012, "RETURN", layoutNone, instruction.Return, 1},
	{0xFFFF, 0x00FF, "RESET", layoutNone, instruction.Return, 1},
	{0xFFF0, 0x0100, "MOVLB", layoutLiteral4, instruction.Plain, 1},
	{0xFE00, 0x0200, "MULWF", layoutFileAccess, instruction.Plain, 1},
	{0xFC00, 0x0400, "DECF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFF00, 0x0800, "SUBLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0900, "IORLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0A00, "XORLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0B00, "ANDLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0C00, "RETLW", layoutLiteral8, instruction.Return, 1},
	{0xFF00, 0x0D00, "MULLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0E00, "MOVLW", layoutLiteral8, instruction.Plain, 1},
	{0xFF00, 0x0F00, "ADDLW", layoutLiteral8, instruction.Plain, 1},
	{0xFC00, 0x1000, "IORWF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x1400, "ANDWF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x1800, "XORWF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x1C00, "COMF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x2000, "ADDWFC", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x2400, "ADDWF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x2800, "INCF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x2C00, "DECFSZ", layoutFileDestAccess, instruction.ConditionalSkip, 1},
	{0xFC00, 0x3000, "RRCF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x3400, "RLCF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x3800, "SWAPF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x3C00, "INCFSZ", layoutFileDestAccess, instruction.ConditionalSkip, 1},
	{0xFC00, 0x4000, "RRNCF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x4400, "RLNCF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x4800, "INFSNZ", layoutFileDestAccess, instruction.ConditionalSkip, 1},
	{0xFC00, 0x4C00, "DCFSNZ", layoutFileDestAccess, instruction.ConditionalSkip, 1},
	{0xFC00, 0x5000, "MOVF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x5400, "SUBFWB", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x5800, "SUBWFB", layoutFileDestAccess, instruction.Plain, 1},
	{0xFC00, 0x5C00, "SUBWF", layoutFileDestAccess, instruction.Plain, 1},
	{0xFE00, 0x6000, "CPFSLT", layoutFileAccess, instruction.ConditionalSkip, 1},
	{0xFE00, 0x6200, "CPFSEQ", layoutFileAccess, instruction.ConditionalSkip, 1},
	{0xFE00, 0x6400, "CPFSGT", layoutFileAccess, instruction.ConditionalSkip, 1},
	{0xFE00, 0x6600, "TSTFSZ", layoutFileAccess, instruction.ConditionalSkip, 1},
	{0xFE00, 0x6800, "SETF", layoutFileAccess, instruction.Plain, 1},
	{0xFE00, 0x6A00, "CLRF", layoutFileAccess, instruction.Plain, 1},
	{0xFE00, 0x6C00, "NEGF", layoutFileAccess, instruction.Plain, 1},
	{0xFE00, 0x6E00, "MOVWF", layoutFileAccess, instruction.Plain, 1},
	{0xF000, 0x7000, "BTG", layoutBitFileAccess, instruction.Plain, 1},
	{0xF000, 0x8000, "BSF", layoutBitFileAccess, instruction.Plain, 1},
	{0xF000, 0x9000, "BCF", layoutBitFileAccess, instruction.Plain, 1},
	{0xF000, 0xA000, "BTFSS", layoutBitFileAccess, instruction.ConditionalSkip, 1},
	{0xF000, 0xB000, "BTFSC", layoutBitFileAccess, instruction.ConditionalSkip, 1},
	{0xF000, 0xC000, "MOVFF", layoutMoveFile, instruction.Plain, 2},
	{0xF800, 0xD000, "BRA", layoutBranch11, instruction.Goto, 1},
	{0xF800, 0xD800, "RCALL", layoutBranch11, instruction.Call, 1},
	{0xFF00, 0xE000, "BZ", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE100, "BNZ", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE200, "BC", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE300, "BNC", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE400, "BOV", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE500, "BNOV", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE600, "BN", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFF00, 0xE700, "BNN", layoutBranch8, instruction.RelativeBranch, 1},
	{0xFE00, 0xEC00, "CALL", layoutLongTarget, instruction.Call, 2},
	{0xFFC0, 0xEE00, "LFSR", layoutLoadFSR, instruction.Plain, 2},
	{0xFF00, 0xEF00, "GOTO", layoutLongTarget, instruction.Goto, 2},
	// a second instruction word always starts with 1111 and executes as NOP
	// when reached directly, e.g. by a skip over a two word instruction
	{0xF000, 0xF000, "NOP", layoutNone, instruction.Plain, 1},
}

// signedOffset converts the low bits of the word into a signed word offset.
func signedOffset(word uint16, bits int) int {
	value := int(word) & (1<<bits - 1)
	if value >= 1<<(bits-1) {
		value -= 1 << bits
	}
	return value
}

// decodeOperands extracts the operand values of the instruction, the second
// word is only used by two word encodings.
func decodeOperands(layout operandLayout, first, second uint16) map[string]int {
	switch layout {
	case layoutFileAccess:
		return map[string]int{"f": int(first & 0xFF), "a": int(first>>8) & 1}
	case layoutFileDestAccess:
		return map[string]int{
			"f": int(first & 0xFF),
			"a": int(first>>8) & 1,
			"d": int(first>>9) & 1,
		}
	case layoutBitFileAccess:
		return map[string]int{
			"f": int(first & 0xFF),
			"a": int(first>>8) & 1,
			"b": int(first>>9) & 7,
		}
	case layoutLiteral8:
		return map[string]int{"k": int(first & 0xFF)}
	case layoutLiteral4:
		return map[string]int{"k": int(first & 0xF)}
	case layoutBranch8:
		return map[string]int{"n": signedOffset(first, 8)}
	case layoutBranch11:
		return map[string]int{"n": signedOffset(first, 11)}
	case layoutLongTarget:
		return map[string]int{"k": int(first&0xFF) | int(second&0xFFF)<<8}
	case layoutMoveFile:
		return map[string]int{"fs": int(first & 0xFFF), "fd": int(second & 0xFFF)}
	case layoutLoadFSR:
		return map[string]int{"f": int(first>>4) & 3, "k": int(first&0xF)<<8 | int(second&0xFF)}
	default:
		return nil
	}
}

// formatText renders the instruction in assembly like form. Branch targets
// are rendered as absolute byte addresses.
func formatText(op opcode, operands map[string]int, address int) string {
	switch op.layout {
	case layoutFileAccess:
		return fmt.Sprintf("%s 0x%02X, %d", op.name, operands["f"], operands["a"])
	case layoutFileDestAccess:
		return fmt.Sprintf("%s 0x%02X, %d, %d", op.name, operands["f"], operands["d"], operands["a"])
	case layoutBitFileAccess:
		return fmt.Sprintf("%s 0x%02X, %d, %d", op.name, operands["f"], operands["b"], operands["a"])
	case layoutLiteral8, layoutLiteral4:
		return fmt.Sprintf("%s 0x%X", op.name, operands["k"])
	case layoutBranch8, layoutBranch11:
		return fmt.Sprintf("%s 0x%X", op.name, address+2*(operands["n"]+1))
	case layoutLongTarget:
		return fmt.Sprintf("%s 0x%X", op.name, operands["k"]*2)
	case layoutMoveFile:
		return fmt.Sprintf("%s 0x%03X, 0x%03X", op.name, operands["fs"], operands["fd"])
	case layoutLoadFSR:
		return fmt.Sprintf("%s %d, 0x%X", op.name, operands["f"], operands["k"])
	default:
		return op.name
	}
}
