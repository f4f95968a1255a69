// Package instruction implements the instruction level control flow graph.
// Every decoded instruction knows the set of instructions it can transfer
// control to, destinations are resolved by address through a shared store so
// that the graph can contain loops without owning pointer cycles.
package instruction

import (
	"cmp"
	"fmt"
	"strconv"
	"sync"
)

// Store is the lookup authority that maps addresses to canonical instructions.
type Store interface {
	// Instruction returns the instruction at the given address, false if no
	// instruction exists at the address. The same address always yields the
	// same instance so that graph traversals can compare targets by identity.
	Instruction(address int) (*Instruction, bool)
	// AddressDescription returns a human readable description of an address,
	// for example "0x0006 = setupUserId0+0x1". It falls back to the decimal
	// rendering of the raw address and never fails, even for negative input.
	AddressDescription(address int) string
}

// Params describes one decoded instruction as produced by a family decoder.
type Params struct {
	Opcode   string         // canonical uppercase mnemonic
	Operands map[string]int // operand name to decoded value, keys vary by opcode
	Size     int            // occupied address units
	Text     string         // assembly like rendering, e.g. "GOTO 0x2"
	Kinds    Kind
}

// Instruction represents a single decoded instruction at a fixed address.
// All fields are immutable after construction, the outgoing transitions are
// computed on first access and cached.
type Instruction struct {
	store Store

	address          int
	opcode           string
	operands         map[string]int
	size             int
	addressIncrement int
	text             string
	kinds            Kind

	once        sync.Once
	transitions []*Transition
}

// New creates an instruction at the given address. The address increment is
// the architecture specific scale factor that converts word addressed operand
// values into the native address unit of the family. Construction fails for
// unrecognized behavior kinds and for kinds that miss their required operand.
func New(store Store, address, addressIncrement int, params Params) (*Instruction, error) {
	if err := params.Kinds.Validate(); err != nil {
		return nil, fmt.Errorf("creating instruction %s at address %04x: %w",
			params.Opcode, address, err)
	}

	operands := make(map[string]int, len(params.Operands))
	for name, value := range params.Operands {
		operands[name] = value
	}

	ins := &Instruction{
		store:            store,
		address:          address,
		opcode:           params.Opcode,
		operands:         operands,
		size:             params.Size,
		addressIncrement: addressIncrement,
		text:             params.Text,
		kinds:            params.Kinds,
	}

	if err := ins.validateOperands(); err != nil {
		return nil, fmt.Errorf("creating instruction %s at address %04x: %w",
			params.Opcode, address, err)
	}
	return ins, nil
}

// validateOperands checks that kinds computing a target address received the
// operand their transition rule depends on.
func (ins *Instruction) validateOperands() error {
	if ins.kinds.Is(Goto) || ins.kinds.Is(Call) {
		if _, ok := ins.operands["k"]; !ok {
			return fmt.Errorf("%s behavior requires operand k", ins.kinds)
		}
	}
	if ins.kinds.Is(RelativeBranch) {
		if _, ok := ins.operands["n"]; !ok {
			return fmt.Errorf("%s behavior requires operand n", ins.kinds)
		}
	}
	return nil
}

// Address returns the address of the instruction in native address units.
func (ins *Instruction) Address() int {
	return ins.address
}

// Opcode returns the mnemonic of the instruction.
func (ins *Instruction) Opcode() string {
	return ins.opcode
}

// Operand returns the decoded value of the named operand.
func (ins *Instruction) Operand(name string) (int, bool) {
	value, ok := ins.operands[name]
	return value, ok
}

// Size returns the number of address units the instruction occupies.
func (ins *Instruction) Size() int {
	return ins.size
}

// Kinds returns the behavior kind flags of the instruction.
func (ins *Instruction) Kinds() Kind {
	return ins.kinds
}

// Text returns the assembly like rendering of the instruction.
func (ins *Instruction) Text() string {
	return ins.text
}

// Transitions returns the outgoing control flow edges of the instruction in a
// fixed order. The edges are computed once and cached, concurrent first access
// converges on a single shared result.
func (ins *Instruction) Transitions() []*Transition {
	ins.once.Do(func() {
		ins.transitions = ins.generateTransitions()
	})
	return ins.transitions
}

// generateTransitions dispatches on the behavior kind of the instruction.
// More specific kinds take precedence so that dispatch stays total when a
// decoder combines flags.
func (ins *Instruction) generateTransitions() []*Transition {
	fallThrough := ins.address + ins.size

	switch {
	case ins.kinds.Is(Return):
		// execution continues at the caller, the static graph does not track
		// the call stack backwards
		return []*Transition{}

	case ins.kinds.Is(Goto):
		return []*Transition{
			newTransition(ins, ins.absoluteTarget(), true, 0),
		}

	case ins.kinds.Is(Call):
		// the fall through edge is the path taken once the callee returns
		return []*Transition{
			newTransition(ins, ins.absoluteTarget(), true, 1),
			newTransition(ins, fallThrough, false, 0),
		}

	case ins.kinds.Is(ConditionalSkip):
		return []*Transition{
			newTransition(ins, fallThrough, false, 0),
			newTransition(ins, ins.address+2*ins.size, false, 0),
		}

	case ins.kinds.Is(RelativeBranch):
		// n is relative to the instruction after the branch, hence the +1
		n := ins.operands["n"]
		return []*Transition{
			newTransition(ins, ins.address+ins.addressIncrement*(n+1), true, 0),
			newTransition(ins, fallThrough, false, 0),
		}

	default:
		return []*Transition{
			newTransition(ins, fallThrough, false, 0),
		}
	}
}

// absoluteTarget converts the word addressed absolute operand k into the
// native address unit of the family. k is absolute on all supported families.
func (ins *Instruction) absoluteTarget() int {
	return ins.operands["k"] * ins.addressIncrement
}

// TransitionTo returns the outgoing transition whose destination resolves to
// the given instruction, false if no edge targets it. Unresolved edges never
// match.
func (ins *Instruction) TransitionTo(target *Instruction) (*Transition, bool) {
	for _, transition := range ins.Transitions() {
		next, ok := transition.NextInstruction()
		if ok && next == target {
			return transition, true
		}
	}
	return nil, false
}

// NextAddresses returns the destination addresses of all outgoing transitions
// in transition order.
func (ins *Instruction) NextAddresses() []int {
	transitions := ins.Transitions()
	addresses := make([]int, 0, len(transitions))
	for _, transition := range transitions {
		addresses = append(addresses, transition.NextAddress())
	}
	return addresses
}

// Compare orders instructions by ascending address, for use with
// slices.SortFunc.
func (ins *Instruction) Compare(other *Instruction) int {
	return cmp.Compare(ins.address, other.address)
}

// String renders the instruction for diagnostics using the address
// description of the store. It never fails.
func (ins *Instruction) String() string {
	if ins.store == nil {
		return fmt.Sprintf("%s: %s", strconv.Itoa(ins.address), ins.text)
	}
	return fmt.Sprintf("%s: %s", ins.store.AddressDescription(ins.address), ins.text)
}
