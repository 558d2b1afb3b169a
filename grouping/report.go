package grouping

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/gobonemat/types"
)

// ReportRow describes how one source material was grouped
type ReportRow struct {
	Material          string
	E_z               float64
	Error             float64 // Absolute deviation from the group modulus
	ElementIDs        []string
	Group             string // Empty when the group was dropped
	GroupE_z          float64
	GroupElementCount int
}

type Report struct {
	Rows []ReportRow // Material table order
}

type Stats struct {
	RMSE, Mean, Max float64
}

func NewReport(mt *types.MaterialTable, p Partition, materialGroup []int, gt *types.GroupTable) (r *Report) {
	counts := make([]int, len(p.Centers))
	for i, a := range p.Assign {
		counts[a] += mt.Records[i].ElementCount()
	}
	r = &Report{Rows: make([]ReportRow, mt.Len())}
	for i := range mt.Records {
		var (
			mr = &mt.Records[i]
			a  = p.Assign[i]
		)
		row := ReportRow{
			Material:          mr.Name,
			E_z:               mr.E_z,
			ElementIDs:        mr.ElementIDs,
			GroupE_z:          p.Centers[a],
			GroupElementCount: counts[a],
		}
		row.Error = math.Abs(row.GroupE_z - row.E_z)
		if g := materialGroup[i]; g >= 0 {
			row.Group = gt.Groups[g].Name
		}
		r.Rows[i] = row
	}
	return
}

func (r *Report) Errors() (e []float64) {
	e = make([]float64, len(r.Rows))
	for i := range r.Rows {
		e[i] = r.Rows[i].Error
	}
	return
}

// Stats aggregates the per material errors
func (r *Report) Stats() (st Stats) {
	e := r.Errors()
	if len(e) == 0 {
		return
	}
	st.RMSE = math.Sqrt(floats.Dot(e, e) / float64(len(e)))
	st.Mean = stat.Mean(e, nil)
	st.Max = floats.Max(e)
	return
}
