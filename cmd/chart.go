/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikesmitty/psychro-chart/pkg/chart"
	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Generate the iso-lines of a psychrometric chart",
	Long: `Generate the constant property lines of a psychrometric chart for the
configured domain and print them as JSON, in dry bulb (°F) against vapor
pressure (psia) coordinates.

  psychro-chart chart --family rh,twb --max-temp 110
  psychro-chart chart --summary`,
	Run: func(cmd *cobra.Command, args []string) {
		d, err := domainFromConfig()
		errChk(err)
		opts, err := chartOptionsFromFlags(cmd, d)
		errChk(err)

		c, err := chart.Generate(cmd.Context(), d, opts)
		errChk(err)

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			errChk(writeChartSummary(os.Stdout, c))
			return
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		errChk(enc.Encode(c))
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringSlice("family", familyFlagDefault(), "iso-line families to generate (tdb, rh, w, twb, v, h)")
	chartCmd.Flags().Float64Slice("rh", nil, "relative humidity lines (%), default every 10%")
	chartCmd.Flags().Float64("width", 1400, "canvas width used for label angles (px)")
	chartCmd.Flags().Float64("height", 800, "canvas height used for label angles (px)")
	chartCmd.Flags().Bool("summary", false, "print a line count per family instead of JSON")
}

func familyFlagDefault() []string {
	out := make([]string, 0, len(chart.AllFamilies))
	for _, f := range chart.AllFamilies {
		out = append(out, string(f))
	}
	return out
}

func chartOptionsFromFlags(cmd *cobra.Command, d psychro.Domain) (chart.Options, error) {
	flags := cmd.Flags()
	opts := chart.DefaultOptions(d)

	names, err := flags.GetStringSlice("family")
	if err != nil {
		return chart.Options{}, err
	}
	opts.Families = opts.Families[:0:0]
	for _, name := range names {
		f, err := chart.ParseFamily(name)
		if err != nil {
			return chart.Options{}, err
		}
		opts.Families = append(opts.Families, f)
	}

	if flags.Changed("rh") {
		if opts.RelativeHumidities, err = flags.GetFloat64Slice("rh"); err != nil {
			return chart.Options{}, err
		}
	}
	width, _ := flags.GetFloat64("width")
	height, _ := flags.GetFloat64("height")
	if width <= 0 || height <= 0 {
		return chart.Options{}, fmt.Errorf("canvas %gx%g must be positive", width, height)
	}
	opts.Scale = chart.NewScale(d, width, height)
	return opts, nil
}

func writeChartSummary(w io.Writer, c *chart.Chart) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Domain\t%g-%g °F, %.3f psia, ω ≤ %g\n", c.Domain.MinTemp, c.Domain.MaxTemp, c.Domain.Pressure, c.Domain.MaxHumidityRatio)
	for _, f := range chart.AllFamilies {
		lines, ok := c.Lines[f]
		if !ok {
			continue
		}
		labelled := 0
		for _, l := range lines {
			if l.Label.Visible {
				labelled++
			}
		}
		fmt.Fprintf(tw, "%s\t%d lines\t%d labels\n", f.Title(), len(lines), labelled)
	}
	return tw.Flush()
}
