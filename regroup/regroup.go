package regroup

import (
	"time"

	"github.com/pkg/errors"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/bone"
	"github.com/notargets/gobonemat/grouping"
	"github.com/notargets/gobonemat/logger"
	"github.com/notargets/gobonemat/readfiles"
	"github.com/notargets/gobonemat/types"
	"github.com/notargets/gobonemat/utils"
	"github.com/notargets/gobonemat/writefiles"
)

type Options struct {
	MeshFile  string
	OutputDir string // Defaults to the directory of MeshFile
	Params    *InputParameters.InputParameters
}

type Summary struct {
	Method      types.GroupingMethod
	Parameter   float64
	Materials   int
	Groups      int
	Elements    int
	Stats       grouping.Stats
	Warnings    []readfiles.ParseError
	Corrections []bone.Correction
	Files       writefiles.OutputFiles
}

/*
Run reads the mesh, groups its materials, derives the group material data and
writes the regenerated mesh with its error report and statistics. Input
problems with single materials are reported in the Summary, anything touching
the files aborts the run.
*/
func Run(opts Options) (s *Summary, err error) {
	var (
		ip    = opts.Params
		start = time.Now()
		mf    *readfiles.MeshFile
		ex    *readfiles.Extraction
		strat grouping.Strategy
		res   *grouping.Result
		out   *readfiles.MeshFile
	)
	if ip == nil {
		ip = InputParameters.NewInputParameters()
	}
	if err = ip.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid parameters")
	}
	s = &Summary{}
	if s.Method, err = ip.GroupingMethod(); err != nil {
		return nil, err
	}
	if s.Parameter, err = ip.StrategyParameter(); err != nil {
		return nil, err
	}
	calc := bone.NewCalculator(ip.Material)
	if mf, err = readfiles.ReadMeshFile(opts.MeshFile); err != nil {
		return nil, err
	}
	if ex, err = readfiles.Extract(mf, calc.Converter()); err != nil {
		return nil, err
	}
	s.Warnings = ex.Warnings
	if strat, err = grouping.New(s.Method, s.Parameter, ip); err != nil {
		return nil, err
	}
	if res, err = grouping.Group(ex.Table, strat); err != nil {
		return nil, err
	}
	s.Corrections = calc.Calculate(res.Groups)
	wo := writefiles.Options{
		Anisotropy: ip.Material.AnisotropyEnabled,
		Plasticity: ip.Material.PlasticityEnabled,
	}
	if out, err = writefiles.Regenerate(mf, res.Groups, ex, wo); err != nil {
		return nil, errors.Wrapf(err, "regenerating %s", opts.MeshFile)
	}
	s.Files = writefiles.OutputNames(opts.MeshFile, opts.OutputDir, writefiles.OutputTag(s.Method, s.Parameter))
	if err = writefiles.WriteMesh(s.Files.Mesh, out); err != nil {
		return nil, err
	}
	if err = writefiles.WriteReport(s.Files.Report, res.Report); err != nil {
		return nil, err
	}
	s.Stats = res.Report.Stats()
	if err = writefiles.WriteStats(s.Files.Stats, s.Stats); err != nil {
		return nil, err
	}
	s.Materials, s.Groups, s.Elements = ex.Table.Len(), res.Groups.Len(), res.Groups.TotalElements()
	logger.Debugf("memory: %s", utils.GetMemUsage())
	logger.Logger().Info().Str("mesh", s.Files.Mesh).Int("materials", s.Materials).Int("groups", s.Groups).
		Int("warnings", len(s.Warnings)).Int("corrections", len(s.Corrections)).
		Dur("elapsed", time.Since(start)).Msg("regrouping written")
	return
}
