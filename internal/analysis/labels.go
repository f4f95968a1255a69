package analysis

import (
	"fmt"

	"github.com/retroenv/picgodisasm/internal/program"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// GenerateFlowLabels names all resolved jump, branch and call destinations
// that carry no symbol yet. Call destinations are treated as function
// entries and win over plain branch labels when both kinds of edges target
// the same address.
func GenerateFlowLabels(prg *program.Program) {
	callTargets := set.New[int]()
	branchTargets := set.New[int]()

	for _, ins := range prg.Instructions() {
		for _, transition := range ins.Transitions() {
			if !transition.NonLocal() {
				continue
			}
			next, ok := transition.NextInstruction()
			if !ok {
				continue
			}
			if transition.CallDepthChange() > 0 {
				callTargets.Add(next.Address())
			} else {
				branchTargets.Add(next.Address())
			}
		}
	}

	syms := prg.Symbols()
	for address := range callTargets {
		if !syms.Has(address) {
			syms.Add(address, fmt.Sprintf(funcNaming, address))
		}
	}
	for address := range branchTargets {
		if !callTargets.Contains(address) && !syms.Has(address) {
			syms.Add(address, fmt.Sprintf(labelNaming, address))
		}
	}
}
