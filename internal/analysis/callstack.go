package analysis

import (
	"context"
	"fmt"
	"slices"

	"github.com/retroenv/picgodisasm/internal/program"
	"github.com/retroenv/retrogolib/log"
)

// DefaultCallDepthLimit bounds the call stack walk. The hardware return
// stack of the supported families holds at most 31 entries, a chain deeper
// than that indicates recursion.
const DefaultCallDepthLimit = 32

// CallStack holds the result of the static call depth reconstruction.
type CallStack struct {
	depths       map[int]int
	maxDepth     int
	maxDepthPath []int
	recursive    bool
}

// ReconstructCallStack walks the control flow graph from the given start
// addresses and computes the maximum static call depth every instruction can
// be reached at. Call edges increment the depth, return instructions end
// their walk branch. A chain exceeding the depth limit is flagged as
// recursive and pruned instead of walked forever.
func ReconstructCallStack(ctx context.Context, logger *log.Logger, prg *program.Program,
	starts []int, depthLimit int) (*CallStack, error) {

	if depthLimit <= 0 {
		depthLimit = DefaultCallDepthLimit
	}

	result := &CallStack{
		depths: make(map[int]int),
	}

	type frame struct {
		address int
		depth   int
		path    []int // chain of call target addresses leading here
	}

	var worklist []frame
	for _, address := range starts {
		worklist = append(worklist, frame{address: address})
	}

	visited := make(map[int]int) // address to deepest walked depth

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("call stack walk cancelled: %w", err)
		}

		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		ins, ok := prg.Instruction(current.address)
		if !ok {
			continue
		}

		if depth, ok := result.depths[current.address]; !ok || current.depth > depth {
			result.depths[current.address] = current.depth
		}
		if current.depth > result.maxDepth {
			result.maxDepth = current.depth
			result.maxDepthPath = current.path
		}

		for _, transition := range ins.Transitions() {
			next, ok := transition.NextInstruction()
			if !ok {
				continue
			}

			nextDepth := current.depth + transition.CallDepthChange()
			if nextDepth > depthLimit {
				result.recursive = true
				logger.Debug("Call depth limit exceeded, assuming recursion",
					log.String("call", prg.AddressDescription(current.address)),
					log.Int("depth", nextDepth))
				continue
			}

			nextAddress := next.Address()
			// revisit only when a deeper chain reaches the instruction
			if depth, ok := visited[nextAddress]; ok && nextDepth <= depth {
				continue
			}
			visited[nextAddress] = nextDepth

			nextPath := current.path
			if transition.CallDepthChange() > 0 {
				nextPath = append(slices.Clone(current.path), nextAddress)
			}
			worklist = append(worklist, frame{
				address: nextAddress,
				depth:   nextDepth,
				path:    nextPath,
			})
		}
	}

	logger.Debug("Call stack walk finished",
		log.Int("max_depth", result.maxDepth),
		log.Int("analyzed", len(result.depths)))
	return result, nil
}

// Depth returns the maximum static call depth the instruction at the address
// can be reached at, false if the walk never reached the address.
func (c *CallStack) Depth(address int) (int, bool) {
	depth, ok := c.depths[address]
	return depth, ok
}

// MaxDepth returns the maximum static call depth of the program.
func (c *CallStack) MaxDepth() int {
	return c.maxDepth
}

// MaxDepthPath returns the chain of call target addresses leading to the
// maximum depth, empty if the program performs no calls.
func (c *CallStack) MaxDepthPath() []int {
	return c.maxDepthPath
}

// Recursive returns whether a call chain exceeded the depth limit.
func (c *CallStack) Recursive() bool {
	return c.recursive
}
