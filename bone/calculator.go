package bone

import (
	"fmt"
	"math"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/logger"
	"github.com/notargets/gobonemat/types"
	"github.com/notargets/gobonemat/utils"
)

// Density in the mesh is in ton/mm^3, the apparent density in kg/m^3
const densityScale = 1.e-12

type CorrectionKind uint8

const (
	StrainNudged CorrectionKind = iota
	StressOrder
	NotANumber
)

func (ck CorrectionKind) String() string {
	return [...]string{"StrainNudged", "StressOrder", "NotANumber"}[ck]
}

// Correction records one adjustment or anomaly of a plastic curve. Point is the
// zero based index of the later point of the offending pair.
type Correction struct {
	Kind          CorrectionKind
	Group         string
	Point         int
	Before, After float64
}

func (c Correction) String() string {
	switch c.Kind {
	case StrainNudged:
		return fmt.Sprintf("%s: plastic strain %d raised from %g to %g", c.Group, c.Point+1, c.Before, c.After)
	case StressOrder:
		return fmt.Sprintf("%s: yield stress %d out of order (%g, %g)", c.Group, c.Point+1, c.Before, c.After)
	default:
		return fmt.Sprintf("%s: plastic strain %d is not a number", c.Group, c.Point+1)
	}
}

type Calculator struct {
	cfg  InputParameters.MaterialConfig
	conv Converter
}

func NewCalculator(cfg InputParameters.MaterialConfig) *Calculator {
	return &Calculator{
		cfg:  cfg,
		conv: NewConverter(cfg),
	}
}

func (c *Calculator) Converter() Converter { return c.conv }

// Calculate fills the material parameters of every group in rank order
func (c *Calculator) Calculate(gt *types.GroupTable) (corrections []Correction) {
	for i := range gt.Groups {
		gr := gt.At(i)
		gr.MaterialParameters = c.Parameters(gr.E_z)
		corrections = append(corrections, c.validate(gr.Name, &gr.Plastic)...)
	}
	for _, corr := range corrections {
		logger.Logger().Warn().Str("group", corr.Group).Int("point", corr.Point+1).
			Str("kind", corr.Kind.String()).Msg(corr.String())
	}
	return
}

func (c *Calculator) Parameters(E_z float64) (mp types.MaterialParameters) {
	var (
		cfg = c.cfg
	)
	mp.HU = c.conv.HUFromModulus(E_z)
	mp.RhoApp = c.conv.ApparentDensity(mp.HU)
	mp.RhoAsh = c.conv.AshDensity(mp.RhoApp)
	mp.Density = mp.RhoApp * densityScale

	mp.Elastic = types.AnisotropicConstants{
		E_x:  cfg.Scale_E_x * E_z,
		E_y:  cfg.Scale_E_y * E_z,
		E_z:  E_z,
		G_xy: cfg.Scale_G_xy * E_z,
		G_xz: cfg.Scale_G_xz * E_z,
		G_yz: cfg.Scale_G_yz * E_z,
		V_xy: cfg.Ass_V_xy,
		V_xz: cfg.Ass_V_xz,
		V_yz: cfg.Ass_V_yz,
	}

	rhoAsh := mp.RhoAsh
	mp.SigmaMin = cfg.A_Min_Stress * utils.SafePow(rhoAsh, cfg.B_Min_Stress)
	mp.Ep = cfg.A_Plastic_E * utils.SafePow(rhoAsh, cfg.B_Plastic_E)
	if rhoAsh >= cfg.Threshold_Plastic_Strain {
		mp.EpsilonAB = cfg.A_Plastic_Strain + cfg.B_Plastic_Strain*rhoAsh
	}
	if rhoAsh <= cfg.Threshold_Plastic_Stress {
		mp.Sigma = cfg.A_Plastic_Stress * utils.SafePow(rhoAsh, cfg.B_Plastic_Stress)
	} else {
		mp.Sigma = cfg.C_Plastic_Stress * utils.SafePow(rhoAsh, cfg.D_Plastic_Stress)
	}
	mp.EpsilonA = mp.Sigma / E_z
	mp.EpsilonC = (mp.SigmaMin-mp.Sigma)/mp.Ep + mp.EpsilonA + mp.EpsilonAB

	mp.Plastic = types.PlasticCurve{
		{YieldStress: (mp.EpsilonA + 1) * mp.Sigma, PlasticStrain: 0},
		{
			YieldStress:   (mp.EpsilonA + mp.EpsilonAB + 1) * mp.Sigma,
			PlasticStrain: utils.SafeLog(-mp.EpsilonA + (mp.EpsilonAB + mp.EpsilonA) + 1),
		},
		{
			YieldStress:   (mp.EpsilonC + 1) * mp.SigmaMin,
			PlasticStrain: utils.SafeLog(mp.EpsilonC - mp.EpsilonA + 1),
		},
	}
	return
}

func (c *Calculator) validate(name string, pc *types.PlasticCurve) (corrections []Correction) {
	// The tertiary point lies on the softening branch, its stress is expected below the secondary one
	if pc[0].YieldStress >= pc[1].YieldStress {
		corrections = append(corrections, Correction{StressOrder, name, 1, pc[0].YieldStress, pc[1].YieldStress})
	}
	if pc[1].YieldStress <= pc[2].YieldStress {
		corrections = append(corrections, Correction{StressOrder, name, 2, pc[1].YieldStress, pc[2].YieldStress})
	}
	for i, p := range pc {
		if utils.IsNan(p.PlasticStrain) {
			corrections = append(corrections, Correction{NotANumber, name, i, p.PlasticStrain, p.PlasticStrain})
		}
	}
	for _, corr := range EnforceMonotonic(pc, c.cfg.StrainCorrection) {
		corr.Group = name
		corrections = append(corrections, corr)
	}
	return
}

/*
EnforceMonotonic raises every plastic strain that does not exceed its
predecessor by the fixed increment eps, repeated until it does. A deficit larger
than eps therefore takes several increments, not a single nudge. Only the strain
moves, the paired yield stress is left as derived. NaN strains are skipped.
*/
func EnforceMonotonic(pc *types.PlasticCurve, eps float64) (corrections []Correction) {
	for i := 1; i < len(pc); i++ {
		prev, cur := pc[i-1].PlasticStrain, pc[i].PlasticStrain
		if math.IsNaN(prev) || math.IsNaN(cur) || cur > prev {
			continue
		}
		after := cur + (math.Floor((prev-cur)/eps)+1)*eps
		for after <= prev {
			after += eps
		}
		pc[i].PlasticStrain = after
		corrections = append(corrections, Correction{Kind: StrainNudged, Point: i, Before: cur, After: after})
	}
	return
}
