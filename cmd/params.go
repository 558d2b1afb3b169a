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

	"github.com/spf13/cobra"

	"github.com/notargets/gobonemat/InputParameters"
)

// ParamsCmd represents the params command
var ParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the effective input parameters and an example parameters file",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.InputParameters
		)
		fileName, _ := cmd.Flags().GetString("inputParametersFile")
		if ip, err = InputParameters.ReadInputParameters(fileName); err != nil {
			return
		}
		if err = ip.Validate(); err != nil {
			return
		}
		w := cmd.OutOrStdout()
		ip.Fprint(w)
		fmt.Fprintf(w, "Example File:%s\n", InputParameters.ExampleFile)
		return
	},
}

func init() {
	rootCmd.AddCommand(ParamsCmd)
	ParamsCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the material coefficients and grouping parameters")
}
