package utils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case []float32:
		for _, f := range v {
			if math.IsNaN(float64(f)) {
				return true
			}
		}
	}
	return false
}

// WriteFileAtomic writes into a temporary file next to filename and renames it
// into place, a failed write leaves any previous file untouched
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	var (
		tmp *os.File
	)
	dir := filepath.Dir(filename)
	if tmp, err = os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp*"); err != nil {
		return
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return
	}
	if err = tmp.Sync(); err != nil {
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return
	}
	err = os.Rename(tmpName, filename)
	return
}
