/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "psychro-chart",
	Short: "Psychrometric properties and chart lines for moist air",
	Long: `psychro-chart computes the thermodynamic properties of moist air in IP
units and generates the constant property lines of a psychrometric chart
for a chosen temperature window, pressure and humidity ratio ceiling.

It can also watch temperature/humidity readings over MQTT and publish the
full air state to Home Assistant.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	d := psychro.DefaultDomain()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.psychro-chart.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Float64("min-temp", d.MinTemp, "chart minimum dry bulb temperature (°F)")
	rootCmd.PersistentFlags().Float64("max-temp", d.MaxTemp, "chart maximum dry bulb temperature (°F)")
	rootCmd.PersistentFlags().Float64("max-humidity-ratio", d.MaxHumidityRatio, "chart maximum humidity ratio (lb/lb)")
	rootCmd.PersistentFlags().Float64("pressure", 0, "barometric pressure (psia), overrides altitude")
	rootCmd.PersistentFlags().Float64("altitude", 0, "site altitude (ft) used when pressure is not set")
	rootCmd.PersistentFlags().String("mqtt-broker", "", "mqtt broker url")
	rootCmd.PersistentFlags().Int("mqtt-sample-interval", 1, "publish every nth reading to mqtt")
	rootCmd.PersistentFlags().String("reading-topic", "", "mqtt topic carrying temperature/humidity readings")
	rootCmd.PersistentFlags().Int("smoothing-window", 5, "readings averaged before computing the air state")
	rootCmd.PersistentFlags().Int("trend-window", 30, "air states used to fit the dew point trend")
	rootCmd.PersistentFlags().Duration("watchdog-timeout", 5*time.Minute, "mark sensors unavailable after this long without readings")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".psychro-chart" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".psychro-chart")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func initLogging() {
	slogOpts := slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if viper.GetBool("debug") {
		slogOpts.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slogOpts)))
}

// domainFromConfig builds the chart window from the configured keys. A zero
// pressure means "derive it from altitude".
func domainFromConfig() (psychro.Domain, error) {
	var d psychro.Domain
	if err := viper.Unmarshal(&d); err != nil {
		return psychro.Domain{}, fmt.Errorf("reading chart domain: %w", err)
	}
	if d.Pressure == 0 {
		d.Pressure = psychro.PressureFromAltitude(viper.GetFloat64("altitude"))
	}
	if err := d.Validate(); err != nil {
		return psychro.Domain{}, err
	}
	slog.Debug("chart domain", "module", "cmd", "domain", d)
	return d, nil
}

func errChk(err error) {
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
