package bone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/types"
)

func groupTable(moduli ...float64) (gt *types.GroupTable) {
	mt := &types.MaterialTable{}
	for i, E := range moduli {
		mt.Records = append(mt.Records, types.MaterialRecord{E_z: E, ElementIDs: []string{string(rune('1' + i))}})
	}
	gt = types.NewGroupTable(mt)
	for i, E := range moduli {
		gt.Assign(gt.Add(E), i)
	}
	gt.Rank()
	return
}

func TestParameters(t *testing.T) {
	calc := NewCalculator(InputParameters.DefaultMaterialConfig())
	mp := calc.Parameters(8000)
	assert.InDelta(t, 1206.378080797, mp.HU, 1.e-6)
	assert.InDelta(t, 1400.556206654, mp.RhoApp, 1.e-6)
	assert.InDelta(t, 0.840333723993, mp.RhoAsh, 1.e-9)
	assert.InDelta(t, 1400.556206654e-12, mp.Density, 1.e-18)

	el := mp.Elastic
	assert.InDelta(t, 0.333*8000, el.E_x, 1.e-9)
	assert.InDelta(t, 0.333*8000, el.E_y, 1.e-9)
	assert.Equal(t, 8000., el.E_z)
	assert.InDelta(t, 0.121*8000, el.G_xy, 1.e-9)
	assert.InDelta(t, 0.157*8000, el.G_xz, 1.e-9)
	assert.InDelta(t, 0.157*8000, el.G_yz, 1.e-9)
	assert.Equal(t, 0.381, el.V_xy)
	assert.Equal(t, 0.104, el.V_xz)
	assert.Equal(t, 0.104, el.V_yz)

	assert.InDelta(t, 46.534274651, mp.SigmaMin, 1.e-6)
	assert.InDelta(t, -2800.181401097, mp.Ep, 1.e-6)
	assert.InDelta(t, 0.058026295107, mp.EpsilonAB, 1.e-9)
	assert.InDelta(t, 84.520476158, mp.Sigma, 1.e-6)

	pc := mp.Plastic
	assert.InDelta(t, 85.413440019, pc[0].YieldStress, 1.e-6)
	assert.Equal(t, 0., pc[0].PlasticStrain)
	assert.InDelta(t, 90.317850111, pc[1].YieldStress, 1.e-6)
	assert.InDelta(t, 0.056405186725, pc[1].PlasticStrain, 1.e-9)
	assert.InDelta(t, 50.357389951, pc[2].YieldStress, 1.e-6)
	assert.InDelta(t, 0.069145315529, pc[2].PlasticStrain, 1.e-9)
}

func TestPlasticBranches(t *testing.T) {
	calc := NewCalculator(InputParameters.DefaultMaterialConfig())
	{ // Below the ash density cutoff the plastic strain term vanishes
		mp := calc.Parameters(5)
		assert.InDelta(t, 0.0282, mp.RhoAsh, 1.e-12)
		assert.Equal(t, 0., mp.EpsilonAB)
		assert.Equal(t, 0., mp.Plastic[1].PlasticStrain)
	}
	{ // Below the stress threshold the first yield law applies
		mp := calc.Parameters(500)
		assert.Less(t, mp.RhoAsh, 0.317)
		assert.InDelta(t, 137*math.Pow(mp.RhoAsh, 1.88), mp.Sigma, 1.e-12)
	}
	{ // Above it the second
		mp := calc.Parameters(6000)
		assert.Greater(t, mp.RhoAsh, 0.317)
		assert.InDelta(t, 114*math.Pow(mp.RhoAsh, 1.72), mp.Sigma, 1.e-12)
	}
}

func TestCalculatePlasticMonotonicity(t *testing.T) {
	calc := NewCalculator(InputParameters.DefaultMaterialConfig())
	gt := groupTable(8000, 2000, 500, 100, 5)
	corrections := calc.Calculate(gt)
	for i := range gt.Groups {
		s := gt.At(i).Plastic.Strains()
		assert.Less(t, s[0], s[1], gt.At(i).Name)
		assert.Less(t, s[1], s[2], gt.At(i).Name)
	}
	// The E = 5 group has equal first strains and equal first stresses
	var nudged, stress int
	for _, c := range corrections {
		switch c.Kind {
		case StrainNudged:
			nudged++
			assert.Equal(t, 1, c.Point)
			assert.InDelta(t, 1.e-3, c.After, 1.e-15)
		case StressOrder:
			stress++
		}
	}
	assert.Equal(t, 1, nudged)
	assert.Equal(t, 1, stress)
}

func TestEnforceMonotonic(t *testing.T) {
	{ // Equal strains move by exactly one increment
		pc := types.PlasticCurve{{YieldStress: 1, PlasticStrain: 0}, {YieldStress: 2, PlasticStrain: 0}, {YieldStress: 0.5, PlasticStrain: 0.03}}
		corr := EnforceMonotonic(&pc, 1.e-3)
		require.Len(t, corr, 1)
		assert.Equal(t, 1.e-3, pc[1].PlasticStrain)
		assert.Equal(t, 0.03, pc[2].PlasticStrain)
		// stresses untouched
		assert.Equal(t, 2., pc[1].YieldStress)
	}
	{ // A deficit larger than the increment takes several increments
		pc := types.PlasticCurve{{YieldStress: 1, PlasticStrain: 0}, {YieldStress: 2, PlasticStrain: 0.05}, {YieldStress: 0.5, PlasticStrain: 0.0412}}
		corr := EnforceMonotonic(&pc, 1.e-3)
		require.Len(t, corr, 1)
		assert.Greater(t, pc[2].PlasticStrain, pc[1].PlasticStrain)
		assert.Less(t, pc[2].PlasticStrain-pc[1].PlasticStrain, 1.e-3+1.e-12)
		assert.Equal(t, 2, corr[0].Point)
	}
	{ // A cascade: the nudged second point pushes the third
		pc := types.PlasticCurve{{YieldStress: 1, PlasticStrain: 0}, {YieldStress: 2, PlasticStrain: -0.01}, {YieldStress: 0.5, PlasticStrain: 0}}
		EnforceMonotonic(&pc, 1.e-3)
		s := pc.Strains()
		assert.Less(t, s[0], s[1])
		assert.Less(t, s[1], s[2])
	}
	{ // NaN sentinels are left alone
		pc := types.PlasticCurve{{YieldStress: 1, PlasticStrain: 0}, {YieldStress: 2, PlasticStrain: math.NaN()}, {YieldStress: 0.5, PlasticStrain: 0.01}}
		assert.Empty(t, EnforceMonotonic(&pc, 1.e-3))
		assert.True(t, math.IsNaN(pc[1].PlasticStrain))
	}
}

func TestCorrectionString(t *testing.T) {
	c := Correction{Kind: StrainNudged, Group: "Mat_3", Point: 1, Before: 0, After: 0.001}
	assert.Equal(t, "Mat_3: plastic strain 2 raised from 0 to 0.001", c.String())
	assert.Contains(t, Correction{Kind: NotANumber, Group: "Mat_1", Point: 2}.String(), "not a number")
}
