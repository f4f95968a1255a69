package instruction

import (
	"slices"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTransitionsPlain(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0x10, 1, Params{
		Opcode: "MOVLW",
		Size:   1,
		Text:   "MOVLW 0x5",
	})
	assert.NoError(t, err)

	assert.Equal(t, []int{0x11}, ins.NextAddresses())

	transitions := ins.Transitions()
	assert.Len(t, transitions, 1)
	assert.False(t, transitions[0].NonLocal())
	assert.Equal(t, 0, transitions[0].CallDepthChange())
}

func TestTransitionsConditionalSkip(t *testing.T) {
	tests := []struct {
		name     string
		address  int
		size     int
		expected []int
	}{
		{"word addressed", 0x20, 1, []int{0x21, 0x22}},
		{"byte addressed", 0, 2, []int{2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			ins, err := store.add(tt.address, 1, Params{
				Opcode: "CPFSEQ",
				Size:   tt.size,
				Text:   "CPFSEQ 0x12",
				Kinds:  ConditionalSkip,
			})
			assert.NoError(t, err)

			assert.Equal(t, tt.expected, ins.NextAddresses())
			for _, transition := range ins.Transitions() {
				assert.False(t, transition.NonLocal())
			}
		})
	}
}

func TestTransitionsGoto(t *testing.T) {
	tests := []struct {
		name      string
		address   int
		k         int
		increment int
		size      int
		expected  []int
	}{
		{"word addressed", 0x10, 0x7FF, 1, 1, []int{0x7FF}},
		{"byte addressed with two word opcode", 0, 1, 2, 4, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			ins, err := store.add(tt.address, tt.increment, Params{
				Opcode:   "GOTO",
				Operands: map[string]int{"k": tt.k},
				Size:     tt.size,
				Text:     "GOTO 0x2",
				Kinds:    Goto,
			})
			assert.NoError(t, err)

			assert.Equal(t, tt.expected, ins.NextAddresses())

			transitions := ins.Transitions()
			assert.Len(t, transitions, 1)
			assert.True(t, transitions[0].NonLocal())
			assert.Equal(t, 0, transitions[0].CallDepthChange())
		})
	}
}

func TestTransitionsCall(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0x30, 2, Params{
		Opcode:   "CALL",
		Operands: map[string]int{"k": 0x100},
		Size:     4,
		Text:     "CALL 0x200",
		Kinds:    Call,
	})
	assert.NoError(t, err)

	assert.Equal(t, []int{0x200, 0x34}, ins.NextAddresses())

	transitions := ins.Transitions()
	assert.Len(t, transitions, 2)
	assert.True(t, transitions[0].NonLocal())
	assert.Equal(t, 1, transitions[0].CallDepthChange())
	assert.False(t, transitions[1].NonLocal())
	assert.Equal(t, 0, transitions[1].CallDepthChange())
}

func TestTransitionsReturn(t *testing.T) {
	for _, opcode := range []string{"RETURN", "RETLW", "RETFIE"} {
		t.Run(opcode, func(t *testing.T) {
			store := newMockStore()
			ins, err := store.add(0x40, 1, Params{
				Opcode: opcode,
				Size:   1,
				Text:   opcode,
				Kinds:  Return,
			})
			assert.NoError(t, err)

			assert.Empty(t, ins.Transitions())
			assert.Empty(t, ins.NextAddresses())
		})
	}
}

func TestTransitionsRelativeBranch(t *testing.T) {
	tests := []struct {
		name     string
		address  int
		n        int
		expected []int
	}{
		{"forward branch", 0x100, 4, []int{0x10A, 0x102}},
		{"backward branch", 0x100, -6, []int{0xF6, 0x102}},
		{"branch to next", 0x100, 0, []int{0x102, 0x102}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			ins, err := store.add(tt.address, 2, Params{
				Opcode:   "BZ",
				Operands: map[string]int{"n": tt.n},
				Size:     2,
				Text:     "BZ target",
				Kinds:    RelativeBranch,
			})
			assert.NoError(t, err)

			assert.Equal(t, tt.expected, ins.NextAddresses())

			transitions := ins.Transitions()
			assert.True(t, transitions[0].NonLocal())
			assert.False(t, transitions[1].NonLocal())
		})
	}
}

func TestTransitionsIdempotent(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0, 1, Params{
		Opcode:   "CALL",
		Operands: map[string]int{"k": 8},
		Size:     1,
		Text:     "CALL 0x8",
		Kinds:    Call,
	})
	assert.NoError(t, err)

	first := ins.NextAddresses()
	second := ins.NextAddresses()
	assert.Equal(t, first, second)
	assert.Equal(t, len(ins.Transitions()), len(ins.Transitions()))
}

func TestTransitionTo(t *testing.T) {
	store := newMockStore()
	target, err := store.add(0x8, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
	assert.NoError(t, err)
	other, err := store.add(0x20, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
	assert.NoError(t, err)
	ins, err := store.add(0, 1, Params{
		Opcode:   "GOTO",
		Operands: map[string]int{"k": 0x8},
		Size:     1,
		Text:     "GOTO 0x8",
		Kinds:    Goto,
	})
	assert.NoError(t, err)

	transition, ok := ins.TransitionTo(target)
	assert.True(t, ok)
	assert.Equal(t, 0x8, transition.NextAddress())
	assert.True(t, transition.NonLocal())

	_, ok = ins.TransitionTo(other)
	assert.False(t, ok)
}

func TestNewUnknownKind(t *testing.T) {
	store := newMockStore()
	_, err := New(store, 0, 1, Params{
		Opcode: "GOTO",
		Size:   1,
		Kinds:  Kind(0x40),
	})
	assert.ErrorContains(t, err, "unknown behavior kind")
}

func TestNewMissingOperand(t *testing.T) {
	tests := []struct {
		name   string
		kinds  Kind
		opcode string
	}{
		{"goto without k", Goto, "GOTO"},
		{"call without k", Call, "CALL"},
		{"branch without n", RelativeBranch, "BZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			_, err := New(store, 0, 1, Params{
				Opcode: tt.opcode,
				Size:   1,
				Kinds:  tt.kinds,
			})
			assert.ErrorContains(t, err, "requires operand")
		})
	}
}

func TestCompareOrdersByAddress(t *testing.T) {
	store := newMockStore()
	var instructions []*Instruction
	for _, address := range []int{5, 2, 8} {
		ins, err := store.add(address, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
		assert.NoError(t, err)
		instructions = append(instructions, ins)
	}

	slices.SortFunc(instructions, (*Instruction).Compare)

	addresses := make([]int, 0, len(instructions))
	for _, ins := range instructions {
		addresses = append(addresses, ins.Address())
	}
	assert.Equal(t, []int{2, 5, 8}, addresses)
}

func TestInstructionAccessors(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0x6, 1, Params{
		Opcode:   "BTFSS",
		Operands: map[string]int{"f": 0x3, "b": 5},
		Size:     1,
		Text:     "BTFSS 0x03, 5",
		Kinds:    ConditionalSkip,
	})
	assert.NoError(t, err)

	assert.Equal(t, 0x6, ins.Address())
	assert.Equal(t, "BTFSS", ins.Opcode())
	assert.Equal(t, 1, ins.Size())
	assert.Equal(t, ConditionalSkip, ins.Kinds())
	assert.Equal(t, "BTFSS 0x03, 5", ins.Text())

	f, ok := ins.Operand("f")
	assert.True(t, ok)
	assert.Equal(t, 0x3, f)
	_, ok = ins.Operand("k")
	assert.False(t, ok)
}

func TestInstructionString(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(6, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
	assert.NoError(t, err)

	assert.Equal(t, "6: NOP", ins.String())
}

func TestOperandsCopiedAtConstruction(t *testing.T) {
	store := newMockStore()
	operands := map[string]int{"k": 2}
	ins, err := store.add(0, 1, Params{
		Opcode:   "GOTO",
		Operands: operands,
		Size:     1,
		Text:     "GOTO 0x2",
		Kinds:    Goto,
	})
	assert.NoError(t, err)

	operands["k"] = 0x7FF
	assert.Equal(t, []int{2}, ins.NextAddresses())
}
