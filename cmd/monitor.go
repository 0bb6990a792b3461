/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikesmitty/psychro-chart/pkg/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Publish the air state of MQTT readings to Home Assistant",
	Long: `Subscribe to temperature/humidity readings published as JSON, e.g.
{"temperature": 72.5, "humidity": 41}, and publish dry bulb, humidity
ratio, vapor pressure, wet bulb, dew point, enthalpy, specific volume and
the dew point trend as Home Assistant sensors.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := monitorConfig()
		errChk(err)
		errChk(monitor.Run(cmd.Context(), cfg))
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func monitorConfig() (monitor.Config, error) {
	d, err := domainFromConfig()
	if err != nil {
		return monitor.Config{}, err
	}
	broker, err := url.Parse(viper.GetString("mqtt-broker"))
	if err != nil {
		return monitor.Config{}, err
	}
	cfg := monitor.Config{
		Domain:          d,
		Broker:          broker,
		ReadingTopic:    viper.GetString("reading-topic"),
		SampleInterval:  viper.GetInt("mqtt-sample-interval"),
		SmoothingWindow: viper.GetInt("smoothing-window"),
		TrendWindow:     viper.GetInt("trend-window"),
		WatchdogTimeout: viper.GetDuration("watchdog-timeout"),
	}
	return cfg, cfg.Validate()
}
