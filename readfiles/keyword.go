package readfiles

import (
	"strings"
)

const (
	KW_Material     = "MATERIAL"
	KW_Elastic      = "ELASTIC"
	KW_Density      = "DENSITY"
	KW_Plastic      = "PLASTIC"
	KW_Potential    = "POTENTIAL"
	KW_Elset        = "ELSET"
	KW_SolidSection = "SOLID SECTION"
)

// Keywords that continue a material definition
var materialOptions = map[string]bool{
	KW_Elastic:          true,
	KW_Density:          true,
	KW_Plastic:          true,
	KW_Potential:        true,
	"DEPVAR":            true,
	"USER MATERIAL":     true,
	"EXPANSION":         true,
	"CONDUCTIVITY":      true,
	"SPECIFIC HEAT":     true,
	"DAMPING":           true,
	"HYPERELASTIC":      true,
	"VISCOELASTIC":      true,
	"DAMAGE INITIATION": true,
	"DAMAGE EVOLUTION":  true,
}

func IsMaterialOption(name string) bool { return materialOptions[name] }

type Param struct {
	Key   string // Lower case
	Value string // As written, trimmed
}

type Keyword struct {
	Name   string // Upper case with single inner blanks, e.g. "SOLID SECTION"
	Params []Param
}

func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "**")
}

func IsKeywordLine(line string) bool {
	l := strings.TrimSpace(line)
	return strings.HasPrefix(l, "*") && !strings.HasPrefix(l, "**")
}

// ParseKeyword splits "*Solid Section, elset=Set_1, material=Mat_1" into its name and parameters
func ParseKeyword(line string) (kw Keyword, ok bool) {
	if !IsKeywordLine(line) {
		return
	}
	fields := strings.Split(strings.TrimPrefix(strings.TrimSpace(line), "*"), ",")
	kw.Name = strings.ToUpper(strings.Join(strings.Fields(fields[0]), " "))
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if len(f) == 0 {
			continue
		}
		var p Param
		if ind := strings.Index(f, "="); ind >= 0 {
			p.Key = strings.ToLower(strings.TrimSpace(f[:ind]))
			p.Value = strings.TrimSpace(f[ind+1:])
		} else {
			p.Key = strings.ToLower(f)
		}
		kw.Params = append(kw.Params, p)
	}
	return kw, len(kw.Name) > 0
}

func (kw Keyword) Param(key string) (value string, ok bool) {
	key = strings.ToLower(key)
	for _, p := range kw.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return
}

func (kw Keyword) Has(key string) bool {
	_, ok := kw.Param(key)
	return ok
}

// SplitFields splits a data line on commas, dropping empty fields
func SplitFields(line string) (fields []string) {
	for _, f := range strings.Split(line, ",") {
		if f = strings.TrimSpace(f); len(f) != 0 {
			fields = append(fields, f)
		}
	}
	return
}
