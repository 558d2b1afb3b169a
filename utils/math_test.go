package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeMath(t *testing.T) {
	assert.InDelta(t, 8., SafePow(4, 1.5), 1.e-12)
	assert.Equal(t, 16., SafePow(-2, 4))
	assert.True(t, math.IsNaN(SafePow(-2, 0.5)))
	assert.True(t, math.IsNaN(SafePow(math.NaN(), 2)))

	assert.InDelta(t, 0., SafeLog(1), 1.e-15)
	assert.True(t, math.IsNaN(SafeLog(0)))
	assert.True(t, math.IsNaN(SafeLog(-1)))
	assert.True(t, math.IsNaN(SafeLog(math.NaN())))

	assert.True(t, IsNan(math.NaN()))
	assert.True(t, IsNan([]float64{1, math.NaN()}))
	assert.False(t, IsNan([]float32{1, 2}))
	assert.False(t, IsNan("NaN"))
	assert.Contains(t, GetMemUsage(), "Alloc = ")
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{10, 7.5, 5, 2.5, 0}, Linspace(10, 0, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Nil(t, Linspace(0, 1, 0))
	v := Linspace(1, 2, 3)
	assert.Equal(t, 1., v[0])
	assert.Equal(t, 2., v[2])
}

func TestArgMinAbs(t *testing.T) {
	centers := []float64{100, 50, 50, 10}
	assert.Equal(t, 1, ArgMinAbs(centers, 49))
	assert.Equal(t, 1, ArgMinAbs(centers, 50))
	// equidistant from 100 and 50 resolves to the first
	assert.Equal(t, 0, ArgMinAbs(centers, 75))
	assert.Equal(t, 3, ArgMinAbs(centers, -5))
	assert.Equal(t, -1, ArgMinAbs(nil, 1))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "out.inp")
	require.NoError(t, WriteFileAtomic(fn, []byte("first\n"), 0644))
	require.NoError(t, WriteFileAtomic(fn, []byte("second\n"), 0644))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should remain")

	err = WriteFileAtomic(filepath.Join(dir, "missing", "out.inp"), []byte("x"), 0644)
	assert.Error(t, err)
}
