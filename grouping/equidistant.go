package grouping

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gobonemat/bone"
	"github.com/notargets/gobonemat/types"
	"github.com/notargets/gobonemat/utils"
)

// Equidistant places NumGroups bins evenly in HU between the extreme materials
type Equidistant struct {
	NumGroups int
	Converter bone.Converter
}

func (eq *Equidistant) Method() types.GroupingMethod { return types.GM_Equidistant }

func (eq *Equidistant) Parameter() float64 { return float64(eq.NumGroups) }

/*
Centers spans max HU down to the smallest HU above the cutoff with NumGroups+1
values and maps the midpoints of adjacent values to a modulus through the HU
relation, floor clamp included.
*/
func (eq *Equidistant) Centers(HU []float64) (centers []float64) {
	var (
		HUmax = floats.Max(HU)
		HUmin = 0.
		found bool
	)
	for _, h := range HU {
		if h > modulusCutoff && (!found || h < HUmin) {
			HUmin, found = h, true
		}
	}
	edges := utils.Linspace(HUmax, HUmin, eq.NumGroups+1)
	centers = make([]float64, eq.NumGroups)
	for i := range centers {
		centers[i] = eq.Converter.ModulusFromHU(0.5 * (edges[i] + edges[i+1]))
	}
	return
}

func (eq *Equidistant) Partition(mt *types.MaterialTable) (p Partition, err error) {
	if eq.NumGroups < 1 {
		err = fmt.Errorf("number of equidistant groups must be positive, have %d", eq.NumGroups)
		return
	}
	HU := make([]float64, mt.Len())
	for i := range mt.Records {
		HU[i] = eq.Converter.HUFromModulus(mt.Records[i].E_z)
	}
	p = nearestPartition(mt, eq.Centers(HU))
	return
}
