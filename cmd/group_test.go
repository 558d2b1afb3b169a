package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeck = `*Heading
*Elset, elset=Set_1
1, 2, 3
*Elset, elset=Set_2
4, 5
*Elset, elset=Set_3
6
*Solid Section, elset=Set_1, material=Mat_1
,
*Solid Section, elset=Set_2, material=Mat_2
,
*Solid Section, elset=Set_3, material=Mat_3
,
*Material, name=Mat_1
*Elastic
9000., 0.3
*Material, name=Mat_2
*Elastic
8500., 0.3
*Material, name=Mat_3
*Elastic
700., 0.3
`

// resetFlags clears the flag values left behind by an earlier execution
func resetFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
}

func executeCommand(args ...string) (out string, err error) {
	resetFlags(rootCmd, GroupCmd, ParamsCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return buf.String(), err
}

func TestParamsCmd(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "bone.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(`
Title: Test Case
Grouping:
  Method: Equidistant # None, Percentual_Thresholding, Kmeans_Clustering
  NumEquidistantGroups: 3
Material:
  anisotropy_enabled: false
`), 0644))
	out, err := executeCommand("params", "--logLevel", "warn", "-I", fileName)
	require.NoError(t, err)
	assert.Contains(t, out, "\"Test Case\"")
	assert.Contains(t, out, "[Equidistant]")
	assert.Contains(t, out, "[false]\t\t\t\t= Anisotropy")
	assert.Contains(t, out, "Example File:")

	_, err = executeCommand("params", "--logLevel", "warn", "-I", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGroupCmd(t *testing.T) {
	dir, outDir := t.TempDir(), t.TempDir()
	mesh := filepath.Join(dir, "femur.inp")
	require.NoError(t, os.WriteFile(mesh, []byte(testDeck), 0644))

	out, err := executeCommand("group", "--logLevel", "warn", "--meshFile=")
	assert.Error(t, err)
	assert.Contains(t, out, "Example parameters file:")

	_, err = executeCommand("group", "--logLevel", "warn", "-F", mesh, "-m", "Histogram")
	assert.Error(t, err)

	out, err = executeCommand("group", "--logLevel", "warn", "-F", mesh, "-m", "Kmeans_Clustering", "-p", "2",
		"-o", outDir, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "[Kmeans_Clustering]")
	assert.Contains(t, out, "[2]\t\t= Groups")
	assert.Contains(t, out, "[6]\t\t= Elements")
	for _, name := range []string{"femur_2C.inp", "femur_2C_MaterialStatistics.csv",
		"femur_2C_grouping_error_stats.txt"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	_, err = executeCommand("group", "--logLevel", "warn", "-F", mesh, "-m", "Percentual_Thresholding", "-p", "150")
	assert.Error(t, err)

	_, err = executeCommand("group", "--logLevel", "loud", "-F", mesh)
	assert.Error(t, err)
}

func TestGroupCmdEnvironment(t *testing.T) {
	dir, outDir := t.TempDir(), t.TempDir()
	mesh := filepath.Join(dir, "femur.inp")
	require.NoError(t, os.WriteFile(mesh, []byte(testDeck), 0644))
	t.Setenv("GOBONEMAT_GROUP_METHOD", "Equidistant")
	t.Setenv("GOBONEMAT_GROUP_PARAM", "2")
	t.Setenv("GOBONEMAT_GROUP_OUTPUTDIR", outDir)

	out, err := executeCommand("group", "--logLevel", "warn", "-F", mesh)
	require.NoError(t, err)
	assert.Contains(t, out, "[Equidistant]")
	_, err = os.Stat(filepath.Join(outDir, "femur_2EqiGroups.inp"))
	assert.NoError(t, err)

	// Flags take precedence over the environment
	_, err = executeCommand("group", "--logLevel", "warn", "-F", mesh, "-p", "3")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "femur_3EqiGroups.inp"))
	assert.NoError(t, err)

	// Group counts must be whole numbers
	_, err = executeCommand("group", "--logLevel", "warn", "-F", mesh, "-p", "2.5")
	assert.Error(t, err)
	t.Setenv("GOBONEMAT_GROUP_PARAM", "2.5")
	_, err = executeCommand("group", "--logLevel", "warn", "-F", mesh)
	assert.Error(t, err)

	t.Setenv("GOBONEMAT_GROUP_METHOD", "Kmeans_Clustering")
	t.Setenv("GOBONEMAT_GROUP_PARAM", "2")
	t.Setenv("GOBONEMAT_GROUP_SEED", "7")
	out, err = executeCommand("group", "--logLevel", "warn", "-F", mesh)
	require.NoError(t, err)
	assert.Contains(t, out, "[2]\t\t= Groups")
}
