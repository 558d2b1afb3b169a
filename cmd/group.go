/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gobonemat/InputParameters"
	"github.com/notargets/gobonemat/regroup"
)

type GroupRun struct {
	MeshFile   string
	ParamsFile string
	Method     string
	OutputDir  string
	Param      float64
	ParamSet   bool
	Seed       int64
	SeedSet    bool
}

// GroupCmd represents the group command
var GroupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group the materials of an Abaqus input file and write the regenerated file",
	Long: `
Reads the materials and element sets of an Abaqus input file, groups the
materials with one of the methods
	None, Percentual_Thresholding, Equidistant, Kmeans_Clustering
and writes <mesh>_<tag>.inp with the grouping error report next to it.

gobonemat group -F femur.inp -I bone.yaml -m Percentual_Thresholding -p 12.5`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.InputParameters
			s  *regroup.Summary
		)
		gr := &GroupRun{}
		gr.MeshFile, _ = cmd.Flags().GetString("meshFile")
		gr.ParamsFile, _ = cmd.Flags().GetString("inputParametersFile")
		gr.Method = viper.GetString("group.method")
		gr.OutputDir = viper.GetString("group.outputDir")
		gr.Param = viper.GetFloat64("group.param")
		gr.ParamSet = viper.IsSet("group.param")
		gr.Seed = viper.GetInt64("group.seed")
		gr.SeedSet = viper.IsSet("group.seed")
		if ip, err = processInput(gr, cmd.OutOrStdout()); err != nil {
			return
		}
		if s, err = regroup.Run(regroup.Options{
			MeshFile:  gr.MeshFile,
			OutputDir: gr.OutputDir,
			Params:    ip,
		}); err != nil {
			return
		}
		printSummary(cmd.OutOrStdout(), s)
		return
	},
}

func processInput(gr *GroupRun, w io.Writer) (ip *InputParameters.InputParameters, err error) {
	if len(gr.MeshFile) == 0 {
		fmt.Fprintf(w, "Example parameters file:%s\n", InputParameters.ExampleFile)
		return nil, fmt.Errorf("must supply an Abaqus input file (-F, --meshFile)")
	}
	if ip, err = InputParameters.ReadInputParameters(gr.ParamsFile); err != nil {
		return
	}
	if len(gr.Method) != 0 {
		ip.Grouping.Method = gr.Method
	}
	if gr.ParamSet {
		if err = ip.SetStrategyParameter(gr.Param); err != nil {
			return
		}
	}
	if gr.SeedSet {
		ip.Grouping.Seed = gr.Seed
	}
	err = ip.Validate()
	return
}

func printSummary(w io.Writer, s *regroup.Summary) {
	fmt.Fprintf(w, "[%s]\t= Grouping Method\n", s.Method)
	fmt.Fprintf(w, "%8.5g\t= Parameter\n", s.Parameter)
	fmt.Fprintf(w, "[%d]\t\t= Materials\n", s.Materials)
	fmt.Fprintf(w, "[%d]\t\t= Groups\n", s.Groups)
	fmt.Fprintf(w, "[%d]\t\t= Elements\n", s.Elements)
	fmt.Fprintf(w, "%8.5g\t= RMSE\n", s.Stats.RMSE)
	fmt.Fprintf(w, "%8.5g\t= Mean Grouping Error\n", s.Stats.Mean)
	fmt.Fprintf(w, "%8.5g\t= Max Grouping Error\n", s.Stats.Max)
	for _, pe := range s.Warnings {
		fmt.Fprintf(w, "warning: %s\n", pe.Error())
	}
	for _, c := range s.Corrections {
		fmt.Fprintf(w, "correction: %s\n", c)
	}
	fmt.Fprintf(w, "%s\n%s\n%s\n", s.Files.Mesh, s.Files.Report, s.Files.Stats)
}

func init() {
	rootCmd.AddCommand(GroupCmd)
	GroupCmd.Flags().StringP("meshFile", "F", "", "Abaqus input file (.inp) with one material per element set")
	GroupCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the material coefficients and grouping parameters")
	GroupCmd.Flags().StringP("method", "m", "", "grouping method: None, Percentual_Thresholding, Equidistant, Kmeans_Clustering")
	GroupCmd.Flags().Float64P("param", "p", 0, "threshold percentage, number of equidistant groups or number of clusters")
	GroupCmd.Flags().StringP("outputDir", "o", "", "directory for the output files (default is the mesh file directory)")
	GroupCmd.Flags().Int64("seed", 42, "seed of the clustering")
	_ = viper.BindPFlag("group.method", GroupCmd.Flags().Lookup("method"))
	_ = viper.BindPFlag("group.outputDir", GroupCmd.Flags().Lookup("outputDir"))
	_ = viper.BindPFlag("group.param", GroupCmd.Flags().Lookup("param"))
	_ = viper.BindPFlag("group.seed", GroupCmd.Flags().Lookup("seed"))
}
