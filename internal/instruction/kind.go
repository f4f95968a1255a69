package instruction

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the control flow behavior of an instruction.
// Kinds are bit flags, the zero value marks a plain instruction that only
// falls through to the following instruction.
type Kind uint8

// behavior kinds.
const (
	Plain           Kind = 0
	ConditionalSkip Kind = 1 << iota // skips the following instruction if a condition holds
	RelativeBranch                   // branches by a signed word offset if a condition holds
	Goto                             // unconditional jump to an absolute word address
	Return                           // leaves the subroutine or interrupt handler
	Call                             // subroutine call to an absolute word address
)

const validKinds = ConditionalSkip | RelativeBranch | Goto | Return | Call

// ErrUnknownKind is returned when an instruction is constructed with a
// behavior kind outside the recognized set.
var ErrUnknownKind = errors.New("unknown behavior kind")

var kindNames = []struct {
	kind Kind
	name string
}{
	{ConditionalSkip, "conditional-skip"},
	{RelativeBranch, "relative-branch"},
	{Goto, "goto"},
	{Return, "return"},
	{Call, "call"},
}

// Is returns whether the kind contains the given behavior flag.
func (k Kind) Is(kind Kind) bool {
	return k&kind != 0
}

// Validate returns an error if the kind contains unrecognized behavior flags.
func (k Kind) Validate() error {
	if invalid := k &^ validKinds; invalid != 0 {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownKind, uint8(invalid))
	}
	return nil
}

// String returns the names of all set behavior flags, "plain" for the zero value.
func (k Kind) String() string {
	if k == Plain {
		return "plain"
	}

	var names []string
	for _, entry := range kindNames {
		if k.Is(entry.kind) {
			names = append(names, entry.name)
		}
	}
	if invalid := k &^ validKinds; invalid != 0 {
		names = append(names, fmt.Sprintf("invalid(0x%02x)", uint8(invalid)))
	}
	return strings.Join(names, "|")
}
