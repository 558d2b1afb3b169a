package grouping

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gobonemat/types"
)

// Moduli at or below this are not considered for the smallest threshold
const modulusCutoff = 1.e-3

// Threshold groups on a descending geometric sequence of moduli
type Threshold struct {
	Percent float64
}

func (th *Threshold) Method() types.GroupingMethod { return types.GM_PercentualThresholding }

func (th *Threshold) Parameter() float64 { return th.Percent }

/*
Thresholds starts at the largest modulus and multiplies by (1 - Percent/100)
until the value drops to the smallest modulus above the cutoff. The first value
at or below that minimum and a near zero bin close the sequence.
*/
func (th *Threshold) Thresholds(E []float64) (values []float64) {
	var (
		factor = 1 - th.Percent/100
		Emax   = floats.Max(E)
		Emin   = Emax
	)
	for _, e := range E {
		if e > modulusCutoff && e < Emin {
			Emin = e
		}
	}
	v := Emax
	for ; v > Emin; v *= factor {
		values = append(values, v)
	}
	values = append(values, v, modulusCutoff)
	return
}

func (th *Threshold) Partition(mt *types.MaterialTable) (p Partition, err error) {
	if !(th.Percent > 0 && th.Percent < 100) {
		err = fmt.Errorf("threshold percentage must be in (0,100), have %g", th.Percent)
		return
	}
	p = nearestPartition(mt, th.Thresholds(mt.Moduli()))
	return
}
