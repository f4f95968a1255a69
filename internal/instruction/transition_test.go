package instruction

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNextInstructionResolvesThroughStore(t *testing.T) {
	store := newMockStore()
	target, err := store.add(0x8, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
	assert.NoError(t, err)
	ins, err := store.add(0, 1, Params{
		Opcode:   "GOTO",
		Operands: map[string]int{"k": 0x8},
		Size:     1,
		Text:     "GOTO 0x8",
		Kinds:    Goto,
	})
	assert.NoError(t, err)

	transition := ins.Transitions()[0]

	next, ok := transition.NextInstruction()
	assert.True(t, ok)
	assert.True(t, next == target)

	// repeated resolution returns the identical cached instance
	again, ok := transition.NextInstruction()
	assert.True(t, ok)
	assert.True(t, again == next)
}

func TestNextInstructionUnresolved(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0, 1, Params{
		Opcode:   "GOTO",
		Operands: map[string]int{"k": 0x7FF},
		Size:     1,
		Text:     "GOTO 0x7FF",
		Kinds:    Goto,
	})
	assert.NoError(t, err)

	transition := ins.Transitions()[0]

	next, ok := transition.NextInstruction()
	assert.False(t, ok)
	assert.Nil(t, next)

	// the result stays stable even if the store learns the address later
	_, err = store.add(0x7FF, 1, Params{Opcode: "NOP", Size: 1, Text: "NOP"})
	assert.NoError(t, err)
	_, ok = transition.NextInstruction()
	assert.False(t, ok)
}

func TestTransitionAccessors(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0x10, 1, Params{
		Opcode:   "CALL",
		Operands: map[string]int{"k": 0x20},
		Size:     1,
		Text:     "CALL 0x20",
		Kinds:    Call,
	})
	assert.NoError(t, err)

	transitions := ins.Transitions()
	assert.Len(t, transitions, 2)

	callEdge := transitions[0]
	assert.True(t, callEdge.Source() == ins)
	assert.Equal(t, 0x20, callEdge.NextAddress())
	assert.True(t, callEdge.NonLocal())
	assert.Equal(t, 1, callEdge.CallDepthChange())

	fallThrough := transitions[1]
	assert.Equal(t, 0x11, fallThrough.NextAddress())
	assert.False(t, fallThrough.NonLocal())
	assert.Equal(t, 0, fallThrough.CallDepthChange())
}

func TestTransitionString(t *testing.T) {
	store := newMockStore()
	ins, err := store.add(0, 1, Params{
		Opcode:   "GOTO",
		Operands: map[string]int{"k": 8},
		Size:     1,
		Text:     "GOTO 0x8",
		Kinds:    Goto,
	})
	assert.NoError(t, err)

	assert.Equal(t, "0 -> 8", ins.Transitions()[0].String())
}
