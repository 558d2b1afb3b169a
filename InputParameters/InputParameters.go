package InputParameters

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/types"
)

// MaterialConfig holds the calibrated HU / density / modulus relation and the
// coefficients of the anisotropic and plastic material laws
type MaterialConfig struct {
	// HU -> apparent density -> ash density -> modulus
	A_Qct    float64 `json:"a_Qct"`
	B_Qct    float64 `json:"b_Qct"`
	A_Ash    float64 `json:"a_Ash"`
	B_Ash    float64 `json:"b_Ash"`
	C_Ash    float64 `json:"c_Ash"` // Linear scale from apparent to ash density
	A_Youngs float64 `json:"a_Youngs"`
	B_Youngs float64 `json:"b_Youngs"`
	C_Youngs float64 `json:"c_Youngs"`

	AnisotropyEnabled bool `json:"anisotropy_enabled"`
	PlasticityEnabled bool `json:"plasticity_enabled"`

	Scale_E_x  float64 `json:"Scale_E_x"`
	Scale_E_y  float64 `json:"Scale_E_y"`
	Scale_G_xy float64 `json:"Scale_G_xy"`
	Scale_G_xz float64 `json:"Scale_G_xz"`
	Scale_G_yz float64 `json:"Scale_G_yz"`

	Ass_V_xy float64 `json:"Ass_V_xy"`
	Ass_V_xz float64 `json:"Ass_V_xz"`
	Ass_V_yz float64 `json:"Ass_V_yz"`

	A_Plastic_Strain         float64 `json:"a_Plastic_Strain"`
	B_Plastic_Strain         float64 `json:"b_Plastic_Strain"`
	Threshold_Plastic_Strain float64 `json:"threshold_Plastic_Strain"`
	Threshold_Plastic_Stress float64 `json:"threshold_Plastic_Stress"`
	A_Plastic_Stress         float64 `json:"a_Plastic_Stress"`
	B_Plastic_Stress         float64 `json:"b_Plastic_Stress"`
	C_Plastic_Stress         float64 `json:"c_Plastic_Stress"`
	D_Plastic_Stress         float64 `json:"d_Plastic_Stress"`
	A_Min_Stress             float64 `json:"a_Min_Stress"`
	B_Min_Stress             float64 `json:"b_Min_Stress"`
	A_Plastic_E              float64 `json:"a_Plastic_E"`
	B_Plastic_E              float64 `json:"b_Plastic_E"`

	// Increment applied to a plastic strain that does not exceed its predecessor
	StrainCorrection float64 `json:"StrainCorrection"`
}

type GroupingParameters struct {
	Method               string  `json:"Method"`
	ThresholdPercent     float64 `json:"ThresholdPercent"`
	NumClusters          int     `json:"NumClusters"`
	NumEquidistantGroups int     `json:"NumEquidistantGroups"`
	Seed                 int64   `json:"Seed"`
	MaxIterations        int     `json:"MaxIterations"`
	NumInit              int     `json:"NumInit"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title    string             `json:"Title"`
	Material MaterialConfig     `json:"Material"`
	Grouping GroupingParameters `json:"Grouping"`
}

func DefaultMaterialConfig() MaterialConfig {
	return MaterialConfig{
		A_Qct:    47,
		B_Qct:    1.122,
		A_Ash:    0,
		B_Ash:    0.001,
		C_Ash:    0.0006,
		A_Youngs: 0,
		B_Youngs: 4730,
		C_Youngs: 1.56,

		AnisotropyEnabled: true,
		PlasticityEnabled: true,

		Scale_E_x:  0.333,
		Scale_E_y:  0.333,
		Scale_G_xy: 0.121,
		Scale_G_xz: 0.157,
		Scale_G_yz: 0.157,
		Ass_V_xy:   0.381,
		Ass_V_xz:   0.104,
		Ass_V_yz:   0.104,

		A_Plastic_Strain:         -0.00315,
		B_Plastic_Strain:         0.0728,
		Threshold_Plastic_Strain: 0.0433,
		Threshold_Plastic_Stress: 0.317,
		A_Plastic_Stress:         137,
		B_Plastic_Stress:         1.88,
		C_Plastic_Stress:         114,
		D_Plastic_Stress:         1.72,
		A_Min_Stress:             65.1,
		B_Min_Stress:             1.93,
		A_Plastic_E:              -4000,
		B_Plastic_E:              2.05,

		StrainCorrection: 1.e-3,
	}
}

func DefaultGroupingParameters() GroupingParameters {
	return GroupingParameters{
		Method:               types.GM_KmeansClustering.String(),
		ThresholdPercent:     10,
		NumClusters:          50,
		NumEquidistantGroups: 10,
		Seed:                 42,
		MaxIterations:        300,
		NumInit:              10,
	}
}

func NewInputParameters() *InputParameters {
	return &InputParameters{
		Title:    "Bone modulus grouping",
		Material: DefaultMaterialConfig(),
		Grouping: DefaultGroupingParameters(),
	}
}

// Parse overlays the YAML data onto the current values, keys not present keep their value
func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func ReadInputParameters(fileName string) (ip *InputParameters, err error) {
	var (
		data []byte
	)
	ip = NewInputParameters()
	if len(fileName) == 0 {
		return
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return nil, errors.Wrapf(err, "unable to read input parameters file %s", fileName)
	}
	if err = ip.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "unable to parse input parameters file %s", fileName)
	}
	return
}

func (ip *InputParameters) GroupingMethod() (types.GroupingMethod, error) {
	return types.NewGroupingMethod(ip.Grouping.Method)
}

// StrategyParameter is the single parameter of the selected method: the
// threshold percentage, the number of clusters or the number of bins
func (ip *InputParameters) StrategyParameter() (p float64, err error) {
	var gm types.GroupingMethod
	if gm, err = ip.GroupingMethod(); err != nil {
		return
	}
	switch gm {
	case types.GM_PercentualThresholding:
		p = ip.Grouping.ThresholdPercent
	case types.GM_Equidistant:
		p = float64(ip.Grouping.NumEquidistantGroups)
	case types.GM_KmeansClustering:
		p = float64(ip.Grouping.NumClusters)
	}
	return
}

// SetStrategyParameter stores p in the field belonging to the selected method
func (ip *InputParameters) SetStrategyParameter(p float64) (err error) {
	var gm types.GroupingMethod
	if gm, err = ip.GroupingMethod(); err != nil {
		return
	}
	switch gm {
	case types.GM_PercentualThresholding:
		ip.Grouping.ThresholdPercent = p
	case types.GM_Equidistant, types.GM_KmeansClustering:
		if p != math.Trunc(p) || math.IsInf(p, 0) {
			return errors.Errorf("%s needs a whole number of groups, got %g", gm, p)
		}
	}
	switch gm {
	case types.GM_Equidistant:
		ip.Grouping.NumEquidistantGroups = int(p)
	case types.GM_KmeansClustering:
		ip.Grouping.NumClusters = int(p)
	}
	return
}

func (ip *InputParameters) Validate() (err error) {
	var (
		mc = ip.Material
		gp = ip.Grouping
	)
	if _, err = ip.GroupingMethod(); err != nil {
		return
	}
	for _, c := range []struct {
		name string
		val  float64
	}{
		{"b_Qct", mc.B_Qct}, {"b_Ash", mc.B_Ash}, {"c_Ash", mc.C_Ash},
		{"b_Youngs", mc.B_Youngs}, {"c_Youngs", mc.C_Youngs},
	} {
		if c.val == 0 {
			return fmt.Errorf("coefficient %s must be non zero", c.name)
		}
	}
	switch {
	case mc.StrainCorrection <= 0:
		err = fmt.Errorf("StrainCorrection must be positive, have %g", mc.StrainCorrection)
	case gp.ThresholdPercent <= 0 || gp.ThresholdPercent >= 100:
		err = fmt.Errorf("ThresholdPercent must be in (0,100), have %g", gp.ThresholdPercent)
	case gp.NumClusters < 1:
		err = fmt.Errorf("NumClusters must be at least 1, have %d", gp.NumClusters)
	case gp.NumEquidistantGroups < 1:
		err = fmt.Errorf("NumEquidistantGroups must be at least 1, have %d", gp.NumEquidistantGroups)
	case gp.MaxIterations < 1:
		err = fmt.Errorf("MaxIterations must be at least 1, have %d", gp.MaxIterations)
	case gp.NumInit < 1:
		err = fmt.Errorf("NumInit must be at least 1, have %d", gp.NumInit)
	}
	return
}

func (ip *InputParameters) Print() {
	ip.Fprint(os.Stdout)
}

func (ip *InputParameters) Fprint(w io.Writer) {
	var (
		mc = ip.Material
		gp = ip.Grouping
	)
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t= Grouping Method\n", gp.Method)
	fmt.Fprintf(w, "%8.3f\t\t= Threshold Percent\n", gp.ThresholdPercent)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Clusters\n", gp.NumClusters)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Equidistant Groups\n", gp.NumEquidistantGroups)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Seed\n", gp.Seed)
	fmt.Fprintf(w, "%8.5g, %8.5g\t= a_Qct, b_Qct\n", mc.A_Qct, mc.B_Qct)
	fmt.Fprintf(w, "%8.5g, %8.5g, %8.5g\t= a_Ash, b_Ash, c_Ash\n", mc.A_Ash, mc.B_Ash, mc.C_Ash)
	fmt.Fprintf(w, "%8.5g, %8.5g, %8.5g\t= a_Youngs, b_Youngs, c_Youngs\n", mc.A_Youngs, mc.B_Youngs, mc.C_Youngs)
	fmt.Fprintf(w, "[%t]\t\t\t\t= Anisotropy\n", mc.AnisotropyEnabled)
	fmt.Fprintf(w, "[%t]\t\t\t\t= Plasticity\n", mc.PlasticityEnabled)
	fmt.Fprintf(w, "%8.5g, %8.5g\t= Scale_E_x, Scale_E_y\n", mc.Scale_E_x, mc.Scale_E_y)
	fmt.Fprintf(w, "%8.5g, %8.5g, %8.5g\t= Scale_G_xy, Scale_G_xz, Scale_G_yz\n", mc.Scale_G_xy, mc.Scale_G_xz, mc.Scale_G_yz)
	fmt.Fprintf(w, "%8.5g, %8.5g, %8.5g\t= Ass_V_xy, Ass_V_xz, Ass_V_yz\n", mc.Ass_V_xy, mc.Ass_V_xz, mc.Ass_V_yz)
}

const ExampleFile = `
########################################
Title: "L3 vertebra"
Grouping:
  Method: Percentual_Thresholding # None, Equidistant, Kmeans_Clustering
  ThresholdPercent: 10
  NumClusters: 50
  NumEquidistantGroups: 10
  Seed: 42
Material:
  a_Qct: 47
  b_Qct: 1.122
  a_Ash: 0
  b_Ash: 0.001
  c_Ash: 0.0006
  a_Youngs: 0
  b_Youngs: 4730
  c_Youngs: 1.56
  anisotropy_enabled: true
  plasticity_enabled: true
########################################
`
