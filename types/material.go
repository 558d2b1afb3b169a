package types

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

func MaterialName(rank int) string { return fmt.Sprintf("Mat_%d", rank) }

func SetName(rank int) string { return fmt.Sprintf("Set_%d", rank) }

// AnisotropicConstants are the engineering constants of an orthotropic material
type AnisotropicConstants struct {
	E_x, E_y, E_z    float64
	G_xy, G_xz, G_yz float64
	V_xy, V_xz, V_yz float64
}

type PlasticPoint struct {
	YieldStress, PlasticStrain float64
}

// PlasticCurve holds the elastic limit, the secondary and the tertiary point
type PlasticCurve [3]PlasticPoint

func (pc PlasticCurve) Strains() (s [3]float64) {
	for i, p := range pc {
		s[i] = p.PlasticStrain
	}
	return
}

// MaterialParameters are derived from E_z and the configuration coefficients
type MaterialParameters struct {
	HU      float64
	RhoApp  float64 // Apparent density [kg/m^3]
	RhoAsh  float64 // Ash density [g/cm^3]
	Density float64 // [ton/mm^3]
	Elastic AnisotropicConstants
	// Plasticity intermediates
	SigmaMin  float64 // Minimum principal stress
	Ep        float64 // Plastic modulus
	Sigma     float64 // Yield stress
	EpsilonA  float64 // Elastic strain at yield
	EpsilonAB float64 // Plastic strain term of the secondary point
	EpsilonC  float64
	Plastic   PlasticCurve
}

type MaterialRecord struct {
	Rank          int    // 1 based, by descending E_z
	Name          string // Name in the source mesh
	SetName       string // Owning element set
	Line          int    // 1 based line of the *Material keyword
	SourceModulus float64
	E_z           float64 // Modulus recalculated through HU
	Nu            float64
	ElementIDs    []string // Verbatim element id tokens
	MaterialParameters
}

func (mr *MaterialRecord) ElementCount() int { return len(mr.ElementIDs) }

// MaterialTable is an index addressed arena of source materials
type MaterialTable struct {
	Records []MaterialRecord
}

func (mt *MaterialTable) Len() int { return len(mt.Records) }

func (mt *MaterialTable) At(i int) *MaterialRecord { return &mt.Records[i] }

func (mt *MaterialTable) Moduli() (E []float64) {
	E = make([]float64, len(mt.Records))
	for i := range mt.Records {
		E[i] = mt.Records[i].E_z
	}
	return
}

func (mt *MaterialTable) TotalElements() (n int) {
	for i := range mt.Records {
		n += mt.Records[i].ElementCount()
	}
	return
}

// Rank orders the table by descending E_z, file order is kept for equal moduli
func (mt *MaterialTable) Rank() {
	sort.SliceStable(mt.Records, func(i, j int) bool {
		return mt.Records[i].E_z > mt.Records[j].E_z
	})
	for i := range mt.Records {
		mt.Records[i].Rank = i + 1
	}
}

type GroupRecord struct {
	Rank         int
	Name         string // Mat_<rank>
	SetName      string // Set_<rank>
	E_z          float64
	Members      []int     // Indices into the MaterialTable
	Errors       []float64 // Absolute modulus deviation of each member
	ElementCount int
	MaterialParameters
}

// GroupTable is an index addressed arena of groups built over one MaterialTable
type GroupTable struct {
	Groups    []GroupRecord
	Materials *MaterialTable
}

func NewGroupTable(mt *MaterialTable) *GroupTable {
	return &GroupTable{Materials: mt}
}

func (gt *GroupTable) Len() int { return len(gt.Groups) }

func (gt *GroupTable) At(i int) *GroupRecord { return &gt.Groups[i] }

// Add creates an empty group and returns its index
func (gt *GroupTable) Add(E_z float64) (ind int) {
	gt.Groups = append(gt.Groups, GroupRecord{E_z: E_z})
	return len(gt.Groups) - 1
}

func (gt *GroupTable) Assign(group, material int) {
	g := &gt.Groups[group]
	g.Members = append(g.Members, material)
	g.ElementCount += gt.Materials.Records[material].ElementCount()
}

// Rank drops empty groups, orders by descending E_z and names the survivors
func (gt *GroupTable) Rank() {
	kept := gt.Groups[:0]
	for _, g := range gt.Groups {
		if g.ElementCount > 0 {
			kept = append(kept, g)
		}
	}
	gt.Groups = kept
	sort.SliceStable(gt.Groups, func(i, j int) bool {
		return gt.Groups[i].E_z > gt.Groups[j].E_z
	})
	for i := range gt.Groups {
		g := &gt.Groups[i]
		g.Rank = i + 1
		g.Name, g.SetName = MaterialName(g.Rank), SetName(g.Rank)
		g.Errors = make([]float64, len(g.Members))
		for j, m := range g.Members {
			g.Errors[j] = math.Abs(g.E_z - gt.Materials.Records[m].E_z)
		}
	}
}

func (gt *GroupTable) TotalElements() (n int) {
	for i := range gt.Groups {
		n += gt.Groups[i].ElementCount
	}
	return
}

// ElementIDs merges the element id lists of all members in member order
func (gt *GroupTable) ElementIDs(group int) (ids []string) {
	g := &gt.Groups[group]
	ids = make([]string, 0, g.ElementCount)
	for _, m := range g.Members {
		ids = append(ids, gt.Materials.Records[m].ElementIDs...)
	}
	return
}

// Lookup finds a group by its material name, ignoring case
func (gt *GroupTable) Lookup(name string) (ind int, ok bool) {
	for i := range gt.Groups {
		if strings.EqualFold(gt.Groups[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}
