package instruction

import (
	"fmt"
	"sync"
)

// Transition is a directed control flow edge from an instruction to one of
// its possible successor addresses. The destination is resolved lazily
// through the store of the source instruction and cached.
type Transition struct {
	source          *Instruction
	nextAddress     int
	nonLocal        bool
	callDepthChange int

	once     sync.Once
	next     *Instruction
	resolved bool
}

func newTransition(source *Instruction, nextAddress int, nonLocal bool, callDepthChange int) *Transition {
	return &Transition{
		source:          source,
		nextAddress:     nextAddress,
		nonLocal:        nonLocal,
		callDepthChange: callDepthChange,
	}
}

// Source returns the instruction the transition originates from.
func (t *Transition) Source() *Instruction {
	return t.source
}

// NextAddress returns the destination address, in the same address unit as
// the source instruction address.
func (t *Transition) NextAddress() int {
	return t.nextAddress
}

// NonLocal returns whether the edge represents a jump or branch instead of
// sequential fall through.
func (t *Transition) NonLocal() bool {
	return t.nonLocal
}

// CallDepthChange returns the call stack depth change of the edge, 1 for call
// edges and 0 otherwise. Depth decrements have no edge representation, return
// instructions have no outgoing transitions at all.
func (t *Transition) CallDepthChange() int {
	return t.callDepthChange
}

// NextInstruction resolves the destination instruction through the store and
// caches the result. It returns false if no instruction exists at the
// destination address, which marks a dead end for graph traversals and is not
// an error.
func (t *Transition) NextInstruction() (*Instruction, bool) {
	t.once.Do(func() {
		t.next, t.resolved = t.source.store.Instruction(t.nextAddress)
	})
	return t.next, t.resolved
}

// String renders the edge for diagnostics. It never fails.
func (t *Transition) String() string {
	return fmt.Sprintf("%s -> %s",
		t.source.store.AddressDescription(t.source.address),
		t.source.store.AddressDescription(t.nextAddress))
}
