package analysis

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestGenerateFlowLabels(t *testing.T) {
	prg := newProgram(t,
		0x2002, // 0: CALL 0x2
		0x2803, // 1: GOTO 0x3
		0x0008, // 2: RETURN
		0x2801, // 3: GOTO 0x1
		0x2FFF, // 4: GOTO 0x7FF, unresolved target gets no label
	)

	GenerateFlowLabels(prg)
	syms := prg.Symbols()

	name, ok := syms.Name(2)
	assert.True(t, ok)
	assert.Equal(t, "_func_0002", name)

	name, ok = syms.Name(3)
	assert.True(t, ok)
	assert.Equal(t, "_label_0003", name)

	name, ok = syms.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "_label_0001", name)

	assert.False(t, syms.Has(0x7FF))
	assert.False(t, syms.Has(0))
	assert.False(t, syms.Has(4))
}

func TestGenerateFlowLabelsKeepsExistingSymbols(t *testing.T) {
	prg := newProgram(t,
		0x2002, // 0: CALL 0x2
		0x0000, // 1: NOP
		0x0008, // 2: RETURN
	)
	prg.Symbols().Add(2, "doWork")

	GenerateFlowLabels(prg)

	name, ok := prg.Symbols().Name(2)
	assert.True(t, ok)
	assert.Equal(t, "doWork", name)
}

func TestGenerateFlowLabelsCallWinsOverBranch(t *testing.T) {
	prg := newProgram(t,
		0x2002, // 0: CALL 0x2
		0x2802, // 1: GOTO 0x2
		0x0008, // 2: RETURN
	)

	GenerateFlowLabels(prg)

	name, ok := prg.Symbols().Name(2)
	assert.True(t, ok)
	assert.Equal(t, "_func_0002", name)
}
