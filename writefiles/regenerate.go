package writefiles

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/logger"
	"github.com/notargets/gobonemat/readfiles"
	"github.com/notargets/gobonemat/types"
)

// Options select the keyword blocks written for each group material
type Options struct {
	Anisotropy bool
	Plasticity bool
}

type blockKind uint8

const (
	bk_None blockKind = iota
	bk_Material
	bk_Elset
	bk_Section
)

type regenerator struct {
	mf   *readfiles.MeshFile
	gt   *types.GroupTable
	opts Options
	// Upper case names
	touchedMaterials map[string]bool
	removedSets      map[string]bool
	materialRenames  map[string]string
	setRenames       map[string]string
	names            map[string]bool // Every material and set name in use
	deckMaterials    map[string]bool
	written          []bool
	sectionData      *string // First data line of a removed solid section
	out              []string
	appendAt         int
}

/*
Regenerate rewrites the mesh for the grouped materials. Material blocks named
after a group are given the group's Density, Elastic and Plastic data, all other
tabled materials are removed along with their element sets and solid sections.
One element set and solid section per group goes in front of the first
remaining material. Lines outside those blocks are kept as they are.

Materials left out of the table keep their blocks. Where such a material, or
an element set no tabled material owns, has the name of a group, it is kept
under a new name with "_excluded" appended and its solid section follows the
rename, so no element loses its set.
*/
func Regenerate(mf *readfiles.MeshFile, gt *types.GroupTable, ex *readfiles.Extraction,
	opts Options) (out *readfiles.MeshFile, err error) {
	if gt.Len() == 0 {
		return nil, errors.New("no groups to write")
	}
	rg := &regenerator{
		mf:               mf,
		gt:               gt,
		opts:             opts,
		touchedMaterials: make(map[string]bool),
		removedSets:      make(map[string]bool),
		materialRenames:  make(map[string]string),
		setRenames:       make(map[string]string),
		names:            make(map[string]bool),
		deckMaterials:    make(map[string]bool),
		written:          make([]bool, gt.Len()),
		out:              make([]string, 0, len(mf.Lines)),
		appendAt:         -1,
	}
	for i := range ex.Table.Records {
		mr := ex.Table.At(i)
		rg.touchedMaterials[strings.ToUpper(mr.Name)] = true
		if len(mr.SetName) != 0 {
			rg.removedSets[strings.ToUpper(mr.SetName)] = true
		}
	}
	rg.collectNames(ex)
	for g := range gt.Groups {
		gr := gt.At(g)
		rg.names[strings.ToUpper(gr.Name)] = true
		rg.names[strings.ToUpper(gr.SetName)] = true
	}
	for g := range gt.Groups {
		gr := gt.At(g)
		key := strings.ToUpper(gr.Name)
		if !rg.touchedMaterials[key] && rg.deckMaterials[key] {
			rg.materialRenames[key] = rg.freshName(gr.Name)
			logger.Warnf("excluded material %s is kept as %s", gr.Name, rg.materialRenames[key])
		}
		rg.touchedMaterials[key] = true
		key = strings.ToUpper(gr.SetName)
		if es, ok := ex.Set(gr.SetName); ok && !rg.removedSets[key] {
			rg.setRenames[key] = rg.freshName(es.Name)
			logger.Warnf("element set %s at line %d is kept as %s", es.Name, es.Line, rg.setRenames[key])
		}
		rg.removedSets[key] = true
	}
	rg.scan()
	rg.insertMissingMaterials()
	if err = rg.insertSets(); err != nil {
		return
	}
	out = mf.Derive(rg.out)
	return
}

// collectNames records the material and element set names of the deck
func (rg *regenerator) collectNames(ex *readfiles.Extraction) {
	for _, es := range ex.Sets {
		rg.names[strings.ToUpper(es.Name)] = true
	}
	for _, ev := range rg.mf.Events() {
		if ev.Kind == readfiles.EV_MaterialStart && len(ev.Name) != 0 {
			key := strings.ToUpper(ev.Name)
			rg.names[key] = true
			rg.deckMaterials[key] = true
		}
	}
}

// freshName appends "_excluded" to name, and a counter if that is taken too
func (rg *regenerator) freshName(name string) (fresh string) {
	for n := 1; ; n++ {
		fresh = name + "_excluded"
		if n > 1 {
			fresh = fmt.Sprintf("%s_excluded%d", name, n)
		}
		if key := strings.ToUpper(fresh); !rg.names[key] {
			rg.names[key] = true
			return
		}
	}
}

func renamed(renames map[string]string, name string) string {
	if r, ok := renames[strings.ToUpper(name)]; ok {
		return r
	}
	return name
}

// setParam replaces the value of a keyword parameter and keeps the rest of the line as written
func setParam(line, key, value string) string {
	text := strings.TrimSuffix(line, "\r")
	fields := strings.Split(text, ",")
	for i := 1; i < len(fields); i++ {
		ind := strings.Index(fields[i], "=")
		if ind >= 0 && strings.EqualFold(strings.TrimSpace(fields[i][:ind]), key) {
			fields[i] = fields[i][:ind+1] + value
		}
	}
	return strings.Join(fields, ",") + line[len(text):]
}

func (rg *regenerator) emit(lines ...string) {
	for _, l := range lines {
		rg.out = append(rg.out, rg.mf.NewLine(l))
	}
}

func (rg *regenerator) scan() {
	var (
		cur = bk_None
		c   = rg.mf.Cursor()
	)
	for ev, ok := c.Next(); ok; ev, ok = c.Next() {
		switch ev.Kind {
		case readfiles.EV_Marker, readfiles.EV_Blank:
			rg.out = append(rg.out, ev.Text)
			continue
		case readfiles.EV_DataLine, readfiles.EV_ElementIDLine:
			switch cur {
			case bk_Material, bk_Elset:
			case bk_Section:
				if rg.sectionData == nil {
					text := strings.TrimSuffix(ev.Text, "\r")
					rg.sectionData = &text
				}
			default:
				rg.out = append(rg.out, ev.Text)
			}
			continue
		}
		// Keyword lines
		if cur == bk_Material && ev.Kind != readfiles.EV_MaterialStart && readfiles.IsMaterialOption(ev.Keyword.Name) {
			continue
		}
		cur = bk_None
		switch ev.Kind {
		case readfiles.EV_MaterialStart:
			key := strings.ToUpper(ev.Name)
			if name, ok := rg.materialRenames[key]; ok {
				rg.out = append(rg.out, setParam(ev.Text, "name", name))
				continue
			}
			if !rg.touchedMaterials[key] {
				break
			}
			cur = bk_Material
			if g, ok := rg.gt.Lookup(ev.Name); ok && !rg.written[g] {
				rg.out = append(rg.out, ev.Text)
				rg.emit(materialBlock(rg.gt.At(g), rg.opts)...)
				rg.written[g] = true
			}
			rg.appendAt = len(rg.out)
			continue
		case readfiles.EV_ElsetStart:
			if name, ok := rg.setRenames[strings.ToUpper(ev.Name)]; ok {
				rg.out = append(rg.out, setParam(ev.Text, "elset", name))
				continue
			}
			if rg.removedSets[strings.ToUpper(ev.Name)] {
				cur = bk_Elset
				continue
			}
		case readfiles.EV_SolidSection:
			set, material := renamed(rg.setRenames, ev.Name), renamed(rg.materialRenames, ev.Material)
			if rg.removedSets[strings.ToUpper(set)] || rg.touchedMaterials[strings.ToUpper(material)] {
				cur = bk_Section
				continue
			}
			if set != ev.Name || material != ev.Material {
				rg.out = append(rg.out, setParam(setParam(ev.Text, "elset", set), "material", material))
				continue
			}
		}
		rg.out = append(rg.out, ev.Text)
	}
}

// insertMissingMaterials adds the groups that have no material block of their name
func (rg *regenerator) insertMissingMaterials() {
	var (
		lines []string
	)
	for g := range rg.gt.Groups {
		if rg.written[g] {
			continue
		}
		gr := rg.gt.At(g)
		lines = append(lines, rg.mf.NewLine("*Material, name="+gr.Name))
		for _, l := range materialBlock(gr, rg.opts) {
			lines = append(lines, rg.mf.NewLine(l))
		}
		rg.written[g] = true
	}
	if len(lines) == 0 {
		return
	}
	at := rg.appendAt
	if at < 0 {
		at = len(rg.out)
	}
	rg.out = insertLines(rg.out, at, lines)
}

func (rg *regenerator) insertSets() (err error) {
	var (
		lines []string
		seen  = make(map[string]bool)
		at    = -1
	)
	for g := range rg.gt.Groups {
		gr := rg.gt.At(g)
		ids := rg.gt.ElementIDs(g)
		for _, id := range ids {
			if seen[id] {
				return errors.Errorf("element %s is assigned to more than one group", id)
			}
			seen[id] = true
		}
		lines = append(lines, rg.mf.NewLine("*Elset, elset="+gr.SetName))
		for _, l := range chunkIDs(ids) {
			lines = append(lines, rg.mf.NewLine(l))
		}
		lines = append(lines, rg.mf.NewLine(fmt.Sprintf("*Solid Section, elset=%s, material=%s", gr.SetName, gr.Name)))
		if rg.sectionData != nil {
			lines = append(lines, rg.mf.NewLine(*rg.sectionData))
		}
	}
	for i, l := range rg.out {
		if kw, ok := readfiles.ParseKeyword(l); ok && kw.Name == readfiles.KW_Material {
			at = i
			break
		}
	}
	if at < 0 {
		at = len(rg.out)
	}
	rg.out = insertLines(rg.out, at, lines)
	return
}

func insertLines(dst []string, at int, lines []string) []string {
	res := make([]string, 0, len(dst)+len(lines))
	res = append(res, dst[:at]...)
	res = append(res, lines...)
	return append(res, dst[at:]...)
}

// materialBlock holds the keyword lines following the *Material line of a group
func materialBlock(gr *types.GroupRecord, opts Options) (lines []string) {
	el := gr.Elastic
	lines = append(lines, "*Density", formatReal(gr.Density)+",")
	if opts.Anisotropy {
		lines = append(lines,
			"*Elastic, type=ENGINEERING CONSTANTS",
			" "+joinReals(el.E_x, el.E_y, el.E_z, el.V_xy, el.V_xz, el.V_yz, el.G_xy, el.G_xz)+",",
			" "+formatReal(el.G_yz)+",")
	} else {
		lines = append(lines, "*Elastic", " "+formatReal(gr.E_z)+", "+formatReal(el.V_xy))
	}
	if opts.Plasticity {
		lines = append(lines, "*Plastic")
		for _, p := range gr.Plastic {
			lines = append(lines, " "+joinReals(p.YieldStress, p.PlasticStrain))
		}
		if opts.Anisotropy {
			lines = append(lines, "*Potential", "1.,1.,1.,1.,1.,1.")
		}
	}
	return
}
