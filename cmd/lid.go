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
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/golbm/InputParameters"
	"github.com/notargets/golbm/boundary"
	"github.com/notargets/golbm/domain"
	"github.com/notargets/golbm/scheme"
	"github.com/notargets/golbm/stencil"
	"github.com/notargets/golbm/storage"
)

// LidCmd represents the lid command
var LidCmd = &cobra.Command{
	Use:   "lid",
	Short: "Lid driven cavity boundary compile and update demo",
	Long: `
Builds a square D2Q9 cavity with bounce-back walls and a moving lid,
compiles the boundary conditions into batched tables and times the
per-step boundary update.

golbm lid `,
	Run: func(cmd *cobra.Command, args []string) {
		ld := &LidModel{}
		ld.N, _ = cmd.Flags().GetInt("n")
		ld.Steps, _ = cmd.Flags().GetInt("steps")
		ld.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		ld.Profile, _ = cmd.Flags().GetBool("profile")
		RunLid(ld)
	},
}

func init() {
	rootCmd.AddCommand(LidCmd)
	LidCmd.Flags().IntP("n", "n", 64, "interior cells per side of the cavity")
	LidCmd.Flags().IntP("steps", "s", 100, "number of boundary update steps to time")
	LidCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input parameters file overriding the built-in cavity setup")
	LidCmd.Flags().Bool("profile", false, "write a CPU profile of the update loop")
}

type LidModel struct {
	N, Steps int
	ICFile   string
	Profile  bool
}

const (
	labelWall = 0
	labelLid  = 1
)

func processLidInput(ld *LidModel) (ip *InputParameters.InputParametersLBM) {
	ip = &InputParameters.InputParametersLBM{
		Title: "Lid driven cavity",
		Nx:    ld.N,
		Ny:    ld.N,
		Dx:    1. / float64(ld.N),
		Steps: ld.Steps,
		BCs: map[int]InputParameters.BCParameters{
			labelWall: {Method: map[int]string{0: "bounce_back"}},
			labelLid: {
				Method: map[int]string{0: "bouzidi_bounce_back"},
				Value:  map[string]float64{"rho": 1., "qx": 0.05, "qy": 0.},
			},
		},
	}
	if len(ld.ICFile) != 0 {
		data, err := os.ReadFile(ld.ICFile)
		if err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
		if ip.Steps < 1 {
			ip.Steps = ld.Steps
		}
	}
	return
}

func RunLid(ld *LidModel) {
	ip := processLidInput(ld)
	ip.Print()

	st := stencil.D2Q9()
	sch := scheme.D2Q9()
	// faces ordered xmin, xmax, ymin, ymax: the lid is the ymax face
	dom, err := domain.NewBox(st, []int{ip.Nx, ip.Ny}, ip.Dx, []int{labelWall, labelWall, labelWall, labelLid})
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	cfg, err := ip.BoundaryConfig()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	b, err := boundary.Compile(dom, cfg)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	b.SetLoadIndices()
	if err = b.PrepareRHS(dom, sch); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	for _, bm := range b.Methods {
		fmt.Printf("[%v]\t%d columns\n", bm.Cond, bm.NCols())
	}

	// rest state: rho = 1 everywhere, converted to distribution space
	m := storage.NewArray(sch.Nv, dom.Shape)
	m.SetConservedMoments(sch.ConservedMoments())
	m.FillMoment("rho", 1.)
	sch.Equilibrium(m)
	f := storage.NewArray(sch.Nv, dom.Shape)
	sch.M2F(m, f)

	if ld.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	start := time.Now()
	for n := 0; n < ip.Steps; n++ {
		b.Update(f)
	}
	elapsed := time.Since(start)
	fmt.Printf("%d boundary updates in %v, %v per step\n",
		ip.Steps, elapsed, elapsed/time.Duration(ip.Steps))
}
