package readfiles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/bone"
	"github.com/notargets/gobonemat/logger"
	"github.com/notargets/gobonemat/types"
)

// ParseError locates a non fatal problem in the input deck
type ParseError struct {
	Line     int // 1 based
	Material string
	Err      error
}

func (pe ParseError) Error() string {
	if len(pe.Material) == 0 {
		return fmt.Sprintf("line %d: %v", pe.Line, pe.Err)
	}
	return fmt.Sprintf("line %d, material %s: %v", pe.Line, pe.Material, pe.Err)
}

func (pe ParseError) Unwrap() error { return pe.Err }

type ElementSet struct {
	Name     string
	Line     int // 1 based line of the *Elset keyword
	IDs      []string
	Material string // Assigned by a *Solid Section
}

type Extraction struct {
	Table    *types.MaterialTable
	Sets     []ElementSet // File order
	Warnings []ParseError
	setIndex map[string]int
}

func (ex *Extraction) Set(name string) (es *ElementSet, ok bool) {
	var ind int
	if ind, ok = ex.setIndex[strings.ToUpper(name)]; ok {
		es = &ex.Sets[ind]
	}
	return
}

// TotalElements counts the element ids of the sets owned by tabled materials
func (ex *Extraction) TotalElements() int { return ex.Table.TotalElements() }

func (ex *Extraction) warn(line int, material string, format string, args ...interface{}) {
	pe := ParseError{Line: line, Material: material, Err: errors.Errorf(format, args...)}
	ex.Warnings = append(ex.Warnings, pe)
	logger.Logger().Warn().Int("line", line).Str("material", material).Msg(pe.Err.Error())
}

type pendingMaterial struct {
	name         string
	line         int
	haveElastic  bool
	awaitElastic bool
	engineering  bool
	E, Nu        float64
	malformed    bool
}

/*
Extract scans the deck once and returns the modulus ranked material table and
the element sets. Materials without usable elastic data are left out of the
table with a warning. The table modulus is the Elastic modulus run through
HU and back with the floor clamp of the converter.
*/
func Extract(mf *MeshFile, conv bone.Converter) (ex *Extraction, err error) {
	var (
		materials []*pendingMaterial
		cur       *pendingMaterial
		set       *ElementSet
		sectionOf = make(map[string]string) // material -> elset
	)
	ex = &Extraction{
		Table:    &types.MaterialTable{},
		setIndex: make(map[string]int),
	}
	c := mf.Cursor()
	for ev, ok := c.Next(); ok; ev, ok = c.Next() {
		lineNum := ev.Line + 1
		if ev.IsKeyword() {
			set = nil
			if cur != nil {
				cur.awaitElastic = false
				if ev.Kind != EV_ElasticBlock && !IsMaterialOption(ev.Keyword.Name) {
					cur = nil
				}
			}
		}
		switch ev.Kind {
		case EV_MaterialStart:
			if len(ev.Name) == 0 {
				ex.warn(lineNum, "", "material keyword without a name")
				continue
			}
			cur = &pendingMaterial{name: ev.Name, line: lineNum}
			materials = append(materials, cur)
		case EV_ElasticBlock:
			if cur != nil && !cur.haveElastic {
				cur.awaitElastic = true
				typ, _ := ev.Keyword.Param("type")
				cur.engineering = strings.EqualFold(typ, "ENGINEERING CONSTANTS")
			}
		case EV_DataLine:
			if cur != nil && cur.awaitElastic {
				cur.awaitElastic = false
				ex.readElastic(cur, lineNum, ev.Text)
			}
		case EV_ElsetStart:
			if len(ev.Name) == 0 {
				ex.warn(lineNum, "", "element set keyword without a name")
				continue
			}
			key := strings.ToUpper(ev.Name)
			if _, dup := ex.setIndex[key]; dup {
				ex.warn(lineNum, "", "element set %s defined twice, ids appended", ev.Name)
				set = &ex.Sets[ex.setIndex[key]]
			} else {
				ex.Sets = append(ex.Sets, ElementSet{Name: ev.Name, Line: lineNum})
				ex.setIndex[key] = len(ex.Sets) - 1
				set = &ex.Sets[len(ex.Sets)-1]
			}
			if ev.Generate {
				set.IDs = append(set.IDs, ex.generate(c, lineNum)...)
				set = nil
			}
		case EV_ElementIDLine:
			if set != nil {
				ex.readIDs(set, lineNum, ev.Text)
			}
		case EV_SolidSection:
			if len(ev.Name) == 0 || len(ev.Material) == 0 {
				ex.warn(lineNum, ev.Material, "solid section without elset or material")
				continue
			}
			sectionOf[strings.ToUpper(ev.Material)] = ev.Name
			if es, ok := ex.Set(ev.Name); ok {
				es.Material = ev.Material
			}
		}
	}
	ex.buildTable(materials, sectionOf, conv)
	if ex.Table.Len() == 0 {
		err = errors.Errorf("%s: no material with usable elastic data", mf.Name)
	}
	return
}

func (ex *Extraction) readElastic(cur *pendingMaterial, lineNum int, text string) {
	var (
		fields = SplitFields(text)
		iE     = 0
		iNu    = 1
		err    error
	)
	if cur.engineering {
		// E1, E2, E3, Nu12, ...
		iE, iNu = 2, 3
	}
	if len(fields) <= iNu {
		ex.warn(lineNum, cur.name, "elastic data line [%s] has %d fields", strings.TrimSpace(text), len(fields))
		cur.malformed = true
		return
	}
	if cur.E, err = strconv.ParseFloat(fields[iE], 64); err != nil {
		ex.warn(lineNum, cur.name, "malformed modulus [%s]", fields[iE])
		cur.malformed = true
		return
	}
	if cur.Nu, err = strconv.ParseFloat(fields[iNu], 64); err != nil {
		ex.warn(lineNum, cur.name, "malformed Poisson ratio [%s]", fields[iNu])
		cur.malformed = true
		return
	}
	cur.haveElastic = true
}

func (ex *Extraction) readIDs(set *ElementSet, lineNum int, text string) {
	for _, tok := range SplitFields(text) {
		if _, err := strconv.Atoi(tok); err != nil {
			ex.warn(lineNum, "", "element set %s: non numeric element id [%s]", set.Name, tok)
		}
		set.IDs = append(set.IDs, tok)
	}
}

// generate expands the "start, end, step" lines of a generated element set
func (ex *Extraction) generate(c *Cursor, keywordLine int) (ids []string) {
	for {
		save := c.pos
		ev, ok := c.Next()
		if !ok {
			return
		}
		if ev.Kind == EV_Marker || ev.Kind == EV_Blank {
			continue
		}
		if ev.Kind != EV_ElementIDLine {
			c.pos = save
			c.inElset = false
			return
		}
		fields := SplitFields(ev.Text)
		nums := make([]int, 0, 3)
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				ex.warn(ev.Line+1, "", "generated element set at line %d: malformed field [%s]", keywordLine, f)
				nums = nil
				break
			}
			nums = append(nums, n)
		}
		if len(nums) == 2 {
			nums = append(nums, 1)
		}
		if len(nums) != 3 || nums[2] <= 0 || nums[1] < nums[0] {
			if nums != nil {
				ex.warn(ev.Line+1, "", "generated element set at line %d: bad range [%s]",
					keywordLine, strings.TrimSpace(ev.Text))
			}
			continue
		}
		for n := nums[0]; n <= nums[1]; n += nums[2] {
			ids = append(ids, strconv.Itoa(n))
		}
	}
}

func (ex *Extraction) buildTable(materials []*pendingMaterial, sectionOf map[string]string, conv bone.Converter) {
	var (
		seen = make(map[string]bool)
	)
	for _, pm := range materials {
		key := strings.ToUpper(pm.name)
		switch {
		case seen[key]:
			ex.warn(pm.line, pm.name, "material defined twice, later definition ignored")
			continue
		case !pm.haveElastic:
			if !pm.malformed {
				ex.warn(pm.line, pm.name, "no elastic data, material excluded")
			}
			continue
		case math.IsNaN(pm.E) || math.IsInf(pm.E, 0):
			ex.warn(pm.line, pm.name, "modulus %g is not finite, material excluded", pm.E)
			continue
		}
		seen[key] = true
		mr := types.MaterialRecord{
			Name:          pm.name,
			Line:          pm.line,
			SourceModulus: pm.E,
			Nu:            pm.Nu,
		}
		mr.HU, mr.E_z = conv.Recalculate(pm.E)
		if math.IsNaN(mr.E_z) {
			ex.warn(pm.line, pm.name, "modulus %g has no HU equivalent, material excluded", pm.E)
			continue
		}
		if setName, ok := sectionOf[key]; ok {
			mr.SetName = setName
		} else if setName, ok = conventionalSet(pm.name); ok {
			if _, found := ex.Set(setName); found {
				mr.SetName = setName
			}
		}
		if es, ok := ex.Set(mr.SetName); ok {
			mr.ElementIDs = es.IDs
		} else {
			ex.warn(pm.line, pm.name, "no element set assigned to material")
		}
		ex.Table.Records = append(ex.Table.Records, mr)
	}
	ex.Table.Rank()
	logger.Infof("read %d materials, %d element sets, %d elements", ex.Table.Len(), len(ex.Sets),
		ex.Table.TotalElements())
}

// conventionalSet maps Mat_<n> to Set_<n>
func conventionalSet(material string) (set string, ok bool) {
	if !strings.HasPrefix(strings.ToUpper(material), "MAT_") {
		return
	}
	if _, err := strconv.Atoi(material[4:]); err != nil {
		return
	}
	return "Set_" + material[4:], true
}
