package writefiles

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/gobonemat/types"
)

// Element ids per line of a generated element set
const idsPerLine = 16

// formatReal prints the shortest exact representation, integral values keep a decimal point
func formatReal(v float64) (s string) {
	s = strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += "."
	}
	return
}

func joinReals(vals ...float64) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = formatReal(v)
	}
	return strings.Join(s, ",")
}

// chunkIDs packs element ids idsPerLine to a line
func chunkIDs(ids []string) (lines []string) {
	for i := 0; i < len(ids); i += idsPerLine {
		end := min(i+idsPerLine, len(ids))
		lines = append(lines, strings.Join(ids[i:end], ", "))
	}
	return
}

/*
OutputTag names a grouping run: the threshold percentage with '.' as '_'
followed by "per", the number of equidistant groups followed by "EqiGroups",
the number of clusters followed by "C", or "aniso" when nothing is grouped.
*/
func OutputTag(gm types.GroupingMethod, param float64) string {
	switch gm {
	case types.GM_PercentualThresholding:
		pct := strconv.FormatFloat(param, 'f', -1, 64)
		return strings.ReplaceAll(pct, ".", "_") + "per"
	case types.GM_Equidistant:
		return fmt.Sprintf("%dEqiGroups", int(param))
	case types.GM_KmeansClustering:
		return fmt.Sprintf("%dC", int(param))
	}
	return "aniso"
}

type OutputFiles struct {
	Mesh, Report, Stats string
}

// OutputNames derives the output files from the input mesh, outDir defaults to the mesh directory
func OutputNames(meshFile, outDir, tag string) (of OutputFiles) {
	base := strings.TrimSuffix(filepath.Base(meshFile), filepath.Ext(meshFile))
	if len(outDir) == 0 {
		outDir = filepath.Dir(meshFile)
	}
	stem := filepath.Join(outDir, base+"_"+tag)
	return OutputFiles{
		Mesh:   stem + ".inp",
		Report: stem + "_MaterialStatistics.csv",
		Stats:  stem + "_grouping_error_stats.txt",
	}
}
