package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	sfrc "SFRC/internal/calc/sfrc"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var (
		in         sfrc.Input
		vfMode     string
		fcMode     string
		paramsFile string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:          "sfrc",
		Short:        "Residual flexural strengths fR1/fR3 of steel-fibre-reinforced concrete",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := sfrc.DefaultParams()
			if paramsFile != "" {
				p, err := sfrc.LoadParams(paramsFile)
				if err != nil {
					return err
				}
				params = p
			}
			engine, err := sfrc.NewEngine(params)
			if err != nil {
				return err
			}

			in.VfMode = sfrc.FiberMode(vfMode)
			in.StrengthMode = sfrc.StrengthMode(fcMode)
			res, err := engine.Predict(in)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&in.Vf, "vf", 1.0, "fibre volume fraction")
	f.StringVar(&vfMode, "vf-mode", string(sfrc.FiberPercent), "unit of --vf: percent or decimal")
	f.Float64Var(&in.StrengthMPa, "strength", 40, "concrete compressive strength (MPa)")
	f.StringVar(&fcMode, "strength-mode", string(sfrc.StrengthCylinder), "fc (cylinder) or fcu (cube)")
	f.Float64Var(&in.FiberLengthMM, "lf", sfrc.DefaultLengthMM, "fibre length l_f (mm)")
	f.Float64Var(&in.FiberDiameterMM, "df", sfrc.DefaultDiameterMM, "fibre diameter d_f (mm)")
	f.Float64Var(&in.FiberTensileMPa, "ffu", sfrc.DefaultTensileMPa, "fibre tensile strength f_fu (MPa)")
	f.StringVar(&paramsFile, "params", "", "YAML file overriding model coefficients")
	f.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printResult(out io.Writer, res sfrc.Result) error {
	n := res.Normalized
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "V_f\t%.3f %%\t(%.6f)\n", n.FiberPercent, n.FiberFraction)
	fmt.Fprintf(w, "f_c\t%.2f MPa\t(f_cu %.2f MPa)\n", n.StrengthFc, n.StrengthFcu)
	fmt.Fprintf(w, "l_f/d_f\t%.2f\t\n", n.AspectRatio)
	fmt.Fprintf(w, "f_fu\t%.0f MPa\t\n", n.TensileMPa)
	fmt.Fprintln(w, "\t\t")
	fmt.Fprintln(w, "\tmean\tcharacteristic\tdesign\tgamma")
	fmt.Fprintf(w, "f_R,1\t%.3f\t%.3f\t%.3f\t%.2f\n", res.MeanFR1, res.CharacteristicFR1, res.DesignFR1, res.GammaFR1)
	fmt.Fprintf(w, "f_R,3\t%.3f\t%.3f\t%.3f\t%.2f\n", res.MeanFR3, res.CharacteristicFR3, res.DesignFR3, res.GammaFR3)
	if err := w.Flush(); err != nil {
		return err
	}
	if res.InDomain {
		fmt.Fprintln(out, "All inputs are within the validated limits.")
	}
	for _, warn := range res.Warnings {
		fmt.Fprintln(out, "warning:", warn)
	}
	if res.ClampedFR1 || res.ClampedFR3 {
		fmt.Fprintln(out, "warning: negative raw mean prediction set to 0.0 MPa")
	}
	return nil
}
