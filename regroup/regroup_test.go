package regroup

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/logger"
)

// femurDeck writes a deck of N materials, material i owning i+1 elements
func femurDeck(t *testing.T, dir string, N int) (fileName string) {
	var (
		b  strings.Builder
		id = 1
	)
	b.WriteString("*Heading\n** generated\n*Part, name=FEMUR\n")
	for i := 1; i <= N; i++ {
		b.WriteString("*Elset, elset=Set_" + strconv.Itoa(i) + "\n")
		var ids []string
		for j := 0; j <= i; j++ {
			ids = append(ids, strconv.Itoa(id))
			id++
		}
		b.WriteString(strings.Join(ids, ", ") + "\n")
	}
	for i := 1; i <= N; i++ {
		b.WriteString("*Solid Section, elset=Set_" + strconv.Itoa(i) + ", material=Mat_" + strconv.Itoa(i) + "\n,\n")
	}
	b.WriteString("*End Part\n")
	for i := 1; i <= N; i++ {
		E := 12000. / float64(i)
		b.WriteString("*Material, name=Mat_" + strconv.Itoa(i) + "\n*Elastic\n")
		b.WriteString(strconv.FormatFloat(E, 'f', 3, 64) + ", 0.3\n")
	}
	b.WriteString("*Step, name=Load\n*End Step\n")
	fileName = filepath.Join(dir, "femur.inp")
	require.NoError(t, os.WriteFile(fileName, []byte(b.String()), 0644))
	return
}

func TestRun(t *testing.T) {
	var logBuf bytes.Buffer
	logger.SetOutput(&logBuf)
	defer logger.SetOutput(os.Stderr)

	dir := t.TempDir()
	mesh := femurDeck(t, dir, 20)
	for _, tc := range []struct {
		method string
		param  float64
		suffix string
	}{
		{"Percentual_Thresholding", 10, "femur_10per.inp"},
		{"Equidistant", 5, "femur_5EqiGroups.inp"},
		{"Kmeans_Clustering", 4, "femur_4C.inp"},
		{"None", 0, "femur_aniso.inp"},
	} {
		t.Run(tc.method, func(t *testing.T) {
			ip := InputParameters.NewInputParameters()
			ip.Grouping.Method = tc.method
			require.NoError(t, ip.SetStrategyParameter(tc.param))
			outDir := t.TempDir()
			s, err := Run(Options{MeshFile: mesh, OutputDir: outDir, Params: ip})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(outDir, tc.suffix), s.Files.Mesh)
			assert.Equal(t, 20, s.Materials)
			assert.Equal(t, 230, s.Elements)
			assert.Empty(t, s.Warnings)
			for _, f := range []string{s.Files.Mesh, s.Files.Report, s.Files.Stats} {
				_, err := os.Stat(f)
				assert.NoError(t, err, f)
			}
			if tc.method == "None" {
				assert.Equal(t, 20, s.Groups)
				assert.Equal(t, 0., s.Stats.Max)
			} else {
				assert.Less(t, s.Groups, 20)
				assert.Greater(t, s.Stats.RMSE, 0.)
			}

			// A second run produces identical files
			outDir2 := t.TempDir()
			s2, err := Run(Options{MeshFile: mesh, OutputDir: outDir2, Params: ip})
			require.NoError(t, err)
			for _, pair := range [][2]string{{s.Files.Mesh, s2.Files.Mesh}, {s.Files.Report, s2.Files.Report},
				{s.Files.Stats, s2.Files.Stats}} {
				a, err := os.ReadFile(pair[0])
				require.NoError(t, err)
				b, err := os.ReadFile(pair[1])
				require.NoError(t, err)
				assert.Equal(t, a, b)
			}
		})
	}
	assert.Contains(t, logBuf.String(), "regrouping written")
}

func TestRunErrors(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{})
	defer logger.SetOutput(os.Stderr)

	dir := t.TempDir()
	_, err := Run(Options{MeshFile: filepath.Join(dir, "missing.inp")})
	assert.Error(t, err)

	mesh := femurDeck(t, dir, 3)
	ip := InputParameters.NewInputParameters()
	ip.Grouping.Method = "Histogram"
	_, err = Run(Options{MeshFile: mesh, Params: ip})
	assert.Error(t, err)

	ip = InputParameters.NewInputParameters()
	_, err = Run(Options{MeshFile: mesh, OutputDir: filepath.Join(dir, "no", "such", "dir"), Params: ip})
	assert.Error(t, err)

	// Default parameters, output next to the mesh
	s, err := Run(Options{MeshFile: mesh})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "femur_50C.inp"), s.Files.Mesh)
	assert.Equal(t, 3, s.Groups)
}
