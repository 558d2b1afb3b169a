package bone

import (
	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/utils"
)

const (
	// At or below this HU the modulus is clamped to ModulusFloor
	HUFloor      = 1.e-4
	ModulusFloor = 1.
)

/*
Converter implements the calibrated chain

	HU -> apparent density -> ash density -> E_z

	rho_app = a_Qct + b_Qct*HU         (rho_app = a_Qct for HU <= 0)
	rho_ash = c_Ash*rho_app
	E_z     = a_Youngs + b_Youngs*(a_Ash + b_Ash*rho_app)^c_Youngs

and its inverse E_z -> HU. Units follow the mesh: kg/m^3 for the apparent
density, g/cm^3 for the ash density and MPa for the modulus.
*/
type Converter struct {
	cfg InputParameters.MaterialConfig
}

func NewConverter(cfg InputParameters.MaterialConfig) Converter {
	return Converter{cfg: cfg}
}

func (c Converter) HUFromModulus(E float64) (HU float64) {
	var (
		cfg = c.cfg
	)
	rhoBM := utils.SafePow((E-cfg.A_Youngs)/cfg.B_Youngs, 1/cfg.C_Youngs)
	rhoApp := (rhoBM - cfg.A_Ash) / cfg.B_Ash
	HU = (rhoApp - cfg.A_Qct) / cfg.B_Qct
	return
}

func (c Converter) ApparentDensity(HU float64) (rhoApp float64) {
	if HU <= 0 {
		return c.cfg.A_Qct
	}
	return c.cfg.A_Qct + c.cfg.B_Qct*HU
}

func (c Converter) AshDensity(rhoApp float64) (rhoAsh float64) {
	return c.cfg.C_Ash * rhoApp
}

func (c Converter) ModulusFromApparentDensity(rhoApp float64) (E float64) {
	var (
		cfg = c.cfg
	)
	return cfg.A_Youngs + cfg.B_Youngs*utils.SafePow(cfg.A_Ash+cfg.B_Ash*rhoApp, cfg.C_Youngs)
}

func (c Converter) ModulusFromHU(HU float64) (E float64) {
	if HU <= HUFloor {
		return ModulusFloor
	}
	return c.ModulusFromApparentDensity(c.ApparentDensity(HU))
}

// Recalculate runs a modulus through HU and back, applying the floor clamp
func (c Converter) Recalculate(E float64) (HU, E_z float64) {
	HU = c.HUFromModulus(E)
	E_z = c.ModulusFromHU(HU)
	return
}
