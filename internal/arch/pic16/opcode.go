package pic16

import (
	"fmt"

	"github.com/retroenv/picgodisasm/internal/instruction"
)

// operandLayout describes where the operands live in the 14 bit instruction word.
type operandLayout uint8

const (
	layoutNone      operandLayout = iota
	layoutFileDest                // f in bits 0-6, destination select d in bit 7
	layoutFile                    // f in bits 0-6
	layoutBitFile                 // f in bits 0-6, bit number b in bits 7-9
	layoutLiteral8                // k in bits 0-7
	layoutAddress11               // absolute word address k in bits 0-10
)

// opcode describes one midrange instruction encoding.
type opcode struct {
	mask   uint16
	value  uint16
	name   string
	layout operandLayout
	kinds  instruction.Kind
}

// opcodes contains the 35 instruction midrange set. Encodings with fixed
// words are listed before the sparser masks so that the first match wins.
var opcodes = []opcode{
	{0x3FFF, 0x0008, "RETURN", layoutNone, instruction.Return},
	{0x3FFF, 0x0009, "RETFIE", layoutNone, instruction.Return},
	{0x3FFF, 0x0063, "SLEEP", layoutNone, instruction.Plain},
	{0x3FFF, 0x0064, "CLRWDT", layoutNone, instruction.Plain},
	{0x3F9F, 0x0000, "NOP", layoutNone, instruction.Plain},
	{0x3F80, 0x0080, "MOVWF", layoutFile, instruction.Plain},
	{0x3F80, 0x0100, "CLRW", layoutNone, instruction.Plain},
	{0x3F80, 0x0180, "CLRF", layoutFile, instruction.Plain},
	{0x3F00, 0x0200, "SUBWF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0300, "DECF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0400, "IORWF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0500, "ANDWF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0600, "XORWF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0700, "ADDWF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0800, "MOVF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0900, "COMF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0A00, "INCF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0B00, "DECFSZ", layoutFileDest, instruction.ConditionalSkip},
	{0x3F00, 0x0C00, "RRF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0D00, "RLF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0E00, "SWAPF", layoutFileDest, instruction.Plain},
	{0x3F00, 0x0F00, "INCFSZ", layoutFileDest, instruction.ConditionalSkip},
	{0x3C00, 0x1000, "BCF", layoutBitFile, instruction.Plain},
	{0x3C00, 0x1400, "BSF", layoutBitFile, instruction.Plain},
	{0x3C00, 0x1800, "BTFSC", layoutBitFile, instruction.ConditionalSkip},
	{0x3C00, 0x1C00, "BTFSS", layoutBitFile, instruction.ConditionalSkip},
	{0x3800, 0x2000, "CALL", layoutAddress11, instruction.Call},
	{0x3800, 0x2800, "GOTO", layoutAddress11, instruction.Goto},
	{0x3C00, 0x3000, "MOVLW", layoutLiteral8, instruction.Plain},
	{0x3C00, 0x3400, "RETLW", layoutLiteral8, instruction.Return},
	{0x3F00, 0x3800, "IORLW", layoutLiteral8, instruction.Plain},
	{0x3F00, 0x3900, "ANDLW", layoutLiteral8, instruction.Plain},
	{0x3F00, 0x3A00, "XORLW", layoutLiteral8, instruction.Plain},
	{0x3E00, 0x3C00, "SUBLW", layoutLiteral8, instruction.Plain},
	{0x3E00, 0x3E00, "ADDLW", layoutLiteral8, instruction.Plain},
}

// decodeOperands extracts the operand values of the instruction word.
func decodeOperands(layout operandLayout, word uint16) map[string]int {
	switch layout {
	case layoutFileDest:
		return map[string]int{"f": int(word & 0x7F), "d": int(word>>7) & 1}
	case layoutFile:
		return map[string]int{"f": int(word & 0x7F)}
	case layoutBitFile:
		return map[string]int{"f": int(word & 0x7F), "b": int(word>>7) & 7}
	case layoutLiteral8:
		return map[string]int{"k": int(word & 0xFF)}
	case layoutAddress11:
		return map[string]int{"k": int(word & 0x7FF)}
	default:
		return nil
	}
}

// formatText renders the instruction in assembly like form.
func formatText(op opcode, operands map[string]int) string {
	switch op.layout {
	case layoutFileDest:
		return fmt.Sprintf("%s 0x%02X, %d", op.name, operands["f"], operands["d"])
	case layoutFile:
		return fmt.Sprintf("%s 0x%02X", op.name, operands["f"])
	case layoutBitFile:
		return fmt.Sprintf("%s 0x%02X, %d", op.name, operands["f"], operands["b"])
	case layoutLiteral8, layoutAddress11:
		return fmt.Sprintf("%s 0x%X", op.name, operands["k"])
	default:
		return op.name
	}
}
