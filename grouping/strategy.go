package grouping

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/bone"
	"github.com/notargets/gobonemat/logger"
	"github.com/notargets/gobonemat/types"
	"github.com/notargets/gobonemat/utils"
)

// Strategy maps every source material onto one of a set of group moduli
type Strategy interface {
	Method() types.GroupingMethod
	Parameter() float64
	Partition(mt *types.MaterialTable) (Partition, error)
}

// Partition is the raw output of a Strategy, before empty groups are dropped and ranking
type Partition struct {
	Centers []float64 // Group modulus
	Assign  []int     // Center index of each material in table order
}

func (p Partition) validate(N int) (err error) {
	if len(p.Assign) != N {
		return fmt.Errorf("partition assigns %d of %d materials", len(p.Assign), N)
	}
	for i, a := range p.Assign {
		if a < 0 || a >= len(p.Centers) {
			return fmt.Errorf("material %d assigned to group %d of %d", i, a, len(p.Centers))
		}
	}
	for _, c := range p.Centers {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("group modulus %g is not finite", c)
		}
	}
	return
}

// NearestIndex is the index of the center closest to v, the first one on ties
func NearestIndex(centers []float64, v float64) int {
	return utils.ArgMinAbs(centers, v)
}

func nearestPartition(mt *types.MaterialTable, centers []float64) (p Partition) {
	p.Centers = centers
	p.Assign = make([]int, mt.Len())
	for i := range mt.Records {
		p.Assign[i] = NearestIndex(centers, mt.Records[i].E_z)
	}
	return
}

// New builds the strategy for a method and its single parameter
func New(gm types.GroupingMethod, param float64, ip *InputParameters.InputParameters) (s Strategy, err error) {
	var (
		gp = ip.Grouping
	)
	count := func(label string) (K int, err error) {
		K = int(param)
		if float64(K) != param || K < 1 {
			err = fmt.Errorf("%s must be a positive integer, have %g", label, param)
		}
		return
	}
	switch gm {
	case types.GM_None:
		s = &None{}
	case types.GM_PercentualThresholding:
		if !(param > 0 && param < 100) {
			return nil, fmt.Errorf("threshold percentage must be in (0,100), have %g", param)
		}
		s = &Threshold{Percent: param}
	case types.GM_Equidistant:
		var K int
		if K, err = count("number of equidistant groups"); err != nil {
			return
		}
		s = &Equidistant{NumGroups: K, Converter: bone.NewConverter(ip.Material)}
	case types.GM_KmeansClustering:
		var K int
		if K, err = count("number of clusters"); err != nil {
			return
		}
		s = &Kmeans{
			NumClusters:   K,
			Seed:          gp.Seed,
			MaxIterations: gp.MaxIterations,
			NumInit:       gp.NumInit,
		}
	default:
		err = fmt.Errorf("unknown grouping method %s", gm)
	}
	return
}

type Result struct {
	Method    types.GroupingMethod
	Parameter float64
	Groups    *types.GroupTable
	// Index into Groups.Groups for each material, -1 when its group was dropped as empty
	MaterialGroup []int
	Report        *Report
}

/*
Group partitions the table with the strategy, builds the ranked group table
and the error report. Groups without elements are dropped, the survivors are
named Mat_<rank> and Set_<rank> by descending modulus.
*/
func Group(mt *types.MaterialTable, s Strategy) (r *Result, err error) {
	var (
		p Partition
	)
	if mt.Len() == 0 {
		return nil, errors.New("no materials to group")
	}
	if p, err = s.Partition(mt); err != nil {
		return nil, errors.Wrapf(err, "%s grouping", s.Method())
	}
	if err = p.validate(mt.Len()); err != nil {
		return nil, errors.Wrapf(err, "%s grouping", s.Method())
	}
	gt := types.NewGroupTable(mt)
	for _, c := range p.Centers {
		gt.Add(c)
	}
	for i, a := range p.Assign {
		gt.Assign(a, i)
	}
	gt.Rank()
	if gt.TotalElements() != mt.TotalElements() {
		return nil, errors.Errorf("%s grouping holds %d elements, the mesh has %d",
			s.Method(), gt.TotalElements(), mt.TotalElements())
	}
	r = &Result{
		Method:        s.Method(),
		Parameter:     s.Parameter(),
		Groups:        gt,
		MaterialGroup: make([]int, mt.Len()),
	}
	for i := range r.MaterialGroup {
		r.MaterialGroup[i] = -1
	}
	for g := range gt.Groups {
		for _, m := range gt.Groups[g].Members {
			r.MaterialGroup[m] = g
		}
	}
	r.Report = NewReport(mt, p, r.MaterialGroup, gt)
	st := r.Report.Stats()
	logger.Logger().Info().Str("method", r.Method.String()).Float64("parameter", r.Parameter).
		Int("materials", mt.Len()).Int("groups", gt.Len()).Int("elements", gt.TotalElements()).
		Float64("rmse", st.RMSE).Msg("grouping done")
	return
}
