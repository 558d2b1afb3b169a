package grouping

import (
	"github.com/notargets/gobonemat/types"
)

// None keeps every source material as its own group
type None struct{}

func (n *None) Method() types.GroupingMethod { return types.GM_None }

func (n *None) Parameter() float64 { return 0 }

func (n *None) Partition(mt *types.MaterialTable) (p Partition, err error) {
	p.Centers = mt.Moduli()
	p.Assign = make([]int, mt.Len())
	for i := range p.Assign {
		p.Assign[i] = i
	}
	return
}
