package writefiles

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/grouping"
	"github.com/notargets/gobonemat/readfiles"
	"github.com/notargets/gobonemat/utils"
)

var reportHeader = []string{"E_z", "Grouping_error", "Element_ID", "E_z after Grouping", "Amount of Elements in Group"}

func WriteMesh(filename string, mf *readfiles.MeshFile) (err error) {
	if err = utils.WriteFileAtomic(filename, mf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "unable to write mesh file %s", filename)
	}
	return
}

// WriteReport writes one CSV row per source material
func WriteReport(filename string, r *grouping.Report) (err error) {
	var (
		buf bytes.Buffer
		w   = csv.NewWriter(&buf)
		f   = func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	)
	if err = w.Write(reportHeader); err != nil {
		return
	}
	for _, row := range r.Rows {
		rec := []string{
			f(row.E_z),
			f(row.Error),
			strings.Join(row.ElementIDs, ", "),
			f(row.GroupE_z),
			strconv.Itoa(row.GroupElementCount),
		}
		if err = w.Write(rec); err != nil {
			return
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return
	}
	if err = utils.WriteFileAtomic(filename, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "unable to write report %s", filename)
	}
	return
}

func WriteStats(filename string, st grouping.Stats) (err error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "RMSE: %v\n", st.RMSE)
	fmt.Fprintf(&buf, "Mean Grouping Error: %v\n", st.Mean)
	fmt.Fprintf(&buf, "Max Grouping Error: %v\n", st.Max)
	if err = utils.WriteFileAtomic(filename, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "unable to write statistics %s", filename)
	}
	return
}
