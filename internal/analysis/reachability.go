// Package analysis implements consumers of the instruction level control flow
// graph: reachability walks, static call stack reconstruction and label
// generation for flow targets.
package analysis

import (
	"context"
	"fmt"

	"github.com/retroenv/picgodisasm/internal/instruction"
	"github.com/retroenv/picgodisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Reachability holds the result of a reachability walk over the control flow
// graph.
type Reachability struct {
	reachable  set.Set[int]
	unresolved []*instruction.Transition
	total      int
}

// ReachableFrom follows all transitions starting at the given addresses and
// collects every instruction that static control flow can reach. Transitions
// whose destination has no instruction are recorded as dead ends instead of
// failing the walk.
func ReachableFrom(ctx context.Context, logger *log.Logger, prg *program.Program,
	starts []int) (*Reachability, error) {

	result := &Reachability{
		reachable: set.New[int](),
		total:     len(prg.Instructions()),
	}

	var worklist []int
	queued := set.New[int]()
	for _, address := range starts {
		if queued.Contains(address) {
			continue
		}
		queued.Add(address)
		worklist = append(worklist, address)
	}

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("reachability walk cancelled: %w", err)
		}

		address := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		ins, ok := prg.Instruction(address)
		if !ok {
			// start address outside the loaded image
			continue
		}
		result.reachable.Add(address)

		for _, transition := range ins.Transitions() {
			next, ok := transition.NextInstruction()
			if !ok {
				result.unresolved = append(result.unresolved, transition)
				logger.Debug("Unresolved transition target",
					log.String("source", prg.AddressDescription(address)),
					log.String("target", prg.AddressDescription(transition.NextAddress())))
				continue
			}

			nextAddress := next.Address()
			if queued.Contains(nextAddress) {
				continue
			}
			queued.Add(nextAddress)
			worklist = append(worklist, nextAddress)
		}
	}

	logger.Debug("Reachability walk finished",
		log.Int("reachable", len(result.reachable)),
		log.Int("unreachable", result.UnreachableCount()),
		log.Int("unresolved_edges", len(result.unresolved)))
	return result, nil
}

// Reachable returns whether the instruction at the address was reached.
func (r *Reachability) Reachable(address int) bool {
	return r.reachable.Contains(address)
}

// ReachableCount returns the number of reached instructions.
func (r *Reachability) ReachableCount() int {
	return len(r.reachable)
}

// UnreachableCount returns the number of instructions the walk never reached.
func (r *Reachability) UnreachableCount() int {
	return r.total - len(r.reachable)
}

// Unresolved returns all transitions whose destination address holds no
// instruction, in the order they were discovered.
func (r *Reachability) Unresolved() []*instruction.Transition {
	return r.unresolved
}
