package analysis

import (
	"context"
	"testing"

	"github.com/retroenv/picgodisasm/internal/arch/pic16"
	"github.com/retroenv/picgodisasm/internal/image"
	"github.com/retroenv/picgodisasm/internal/program"
	"github.com/retroenv/picgodisasm/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newProgram builds a PIC16 program from 14 bit instruction words, the slice
// index is the word address.
func newProgram(t *testing.T, words ...uint16) *program.Program {
	t.Helper()

	data := make([]byte, 0, len(words)*2)
	for _, word := range words {
		data = append(data, byte(word), byte(word>>8))
	}
	img := image.New(image.Segment{Address: 0, Data: data})

	prg, err := program.New(pic16.New(), img, symbols.NewTable())
	assert.NoError(t, err)
	return prg
}

func TestReachableFrom(t *testing.T) {
	prg := newProgram(t,
		0x2803, // 0: GOTO 0x3
		0x0000, // 1: NOP, unreachable
		0x0000, // 2: NOP, unreachable
		0x3001, // 3: MOVLW 0x1
		0x1D03, // 4: BTFSS 0x03, 2
		0x2803, // 5: GOTO 0x3, loop back
		0x2008, // 6: CALL 0x8
		0x2FFF, // 7: GOTO 0x7FF, outside the image
		0x0008, // 8: RETURN
	)

	result, err := ReachableFrom(context.Background(), log.NewTestLogger(t), prg, []int{0})
	assert.NoError(t, err)

	assert.Equal(t, 7, result.ReachableCount())
	assert.Equal(t, 2, result.UnreachableCount())
	for _, address := range []int{0, 3, 4, 5, 6, 7, 8} {
		assert.True(t, result.Reachable(address))
	}
	assert.False(t, result.Reachable(1))
	assert.False(t, result.Reachable(2))

	unresolved := result.Unresolved()
	assert.Len(t, unresolved, 1)
	assert.Equal(t, 0x7FF, unresolved[0].NextAddress())
	assert.Equal(t, 7, unresolved[0].Source().Address())
}

func TestReachableFromMultipleStarts(t *testing.T) {
	prg := newProgram(t,
		0x0008, // 0: RETURN
		0x0000, // 1: NOP, unreachable
		0x0000, // 2: NOP
		0x0008, // 3: RETURN
	)

	result, err := ReachableFrom(context.Background(), log.NewTestLogger(t), prg, []int{0, 2})
	assert.NoError(t, err)

	assert.Equal(t, 3, result.ReachableCount())
	assert.False(t, result.Reachable(1))
}

func TestReachableFromStartOutsideImage(t *testing.T) {
	prg := newProgram(t, 0x0000)

	result, err := ReachableFrom(context.Background(), log.NewTestLogger(t), prg, []int{0x100})
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ReachableCount())
	assert.Equal(t, 1, result.UnreachableCount())
}

func TestReachableFromCancelled(t *testing.T) {
	prg := newProgram(t, 0x0000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReachableFrom(ctx, log.NewTestLogger(t), prg, []int{0})
	assert.ErrorContains(t, err, "cancelled")
}
