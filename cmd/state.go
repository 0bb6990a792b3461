/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikesmitty/psychro-chart/pkg/airstate"
	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print every property of an air state",
	Long: `Print every property of the air state at a dry bulb temperature and one
of relative humidity (%), humidity ratio (lb/lb) or wet bulb (°F).
Inputs off the chart are moved to the nearest state on it.

  psychro-chart state --tdb 75 --rh 50
  psychro-chart state --random`,
	Run: func(cmd *cobra.Command, args []string) {
		d, err := domainFromConfig()
		errChk(err)
		s, err := stateFromFlags(cmd, d)
		errChk(err)
		errChk(writeState(os.Stdout, s))
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)

	stateCmd.Flags().Float64("tdb", 75, "dry bulb temperature (°F)")
	stateCmd.Flags().Float64("rh", 0, "relative humidity (%)")
	stateCmd.Flags().Float64("w", 0, "humidity ratio (lb/lb)")
	stateCmd.Flags().Float64("twb", 0, "wet bulb temperature (°F)")
	stateCmd.Flags().Bool("random", false, "pick a random state on the chart")
	stateCmd.MarkFlagsMutuallyExclusive("rh", "w", "twb", "random")
}

func stateFromFlags(cmd *cobra.Command, d psychro.Domain) (*airstate.State, error) {
	flags := cmd.Flags()
	if random, _ := flags.GetBool("random"); random {
		return airstate.NewRandom(d, airstate.DriverRelativeHumidity, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}

	tdb, _ := flags.GetFloat64("tdb")
	for _, driver := range []airstate.Driver{airstate.DriverRelativeHumidity, airstate.DriverHumidityRatio, airstate.DriverWetBulb} {
		if !flags.Changed(driver.String()) {
			continue
		}
		v, err := flags.GetFloat64(driver.String())
		if err != nil {
			return nil, err
		}
		return airstate.New(d, tdb, driver, v)
	}
	return nil, errors.New("one of --rh, --w, --twb or --random is required")
}

type stateOutput struct {
	Domain     psychro.Domain      `json:"domain"`
	Driver     string              `json:"driver"`
	Properties airstate.Properties `json:"properties"`
}

func writeState(w io.Writer, s *airstate.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stateOutput{
		Domain:     s.Domain(),
		Driver:     s.Driver().String(),
		Properties: s.Properties(),
	})
}
