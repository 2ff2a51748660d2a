package tasmoctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/tasmoctl/options"
	"github.com/homectl/go-tasmota/tasmoctl/power"
	"github.com/homectl/go-tasmota/tasmoctl/rule"
	"github.com/homectl/go-tasmota/tasmoctl/system"
	"github.com/homectl/go-tasmota/tasmoctl/timer"
)

var cfgFile string

var Cmd = &cobra.Command{
	Use:   "tasmoctl",
	Short: "Control Tasmota devices: relays, timers and rule schedules",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		hlog.Init(options.Verbose, options.Debug)
		via, err := options.ParseChannel(options.ViaName)
		if err != nil {
			return err
		}
		options.Via = via
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	Cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.tasmoctl.yaml)")
	Cmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false, "verbose output")
	Cmd.PersistentFlags().BoolVarP(&options.Debug, "debug", "d", false, "debug output")
	Cmd.PersistentFlags().StringVar(&options.ViaName, "via", "http", "channel to reach the device (http or mqtt)")

	Cmd.PersistentFlags().String("host", "", "device hostname or IP")
	Cmd.PersistentFlags().String("username", "", "device web username")
	Cmd.PersistentFlags().String("password", "", "device web password")
	viper.BindPFlag("device.host", Cmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("device.username", Cmd.PersistentFlags().Lookup("username"))
	viper.BindPFlag("device.password", Cmd.PersistentFlags().Lookup("password"))

	Cmd.AddCommand(power.Cmd)
	Cmd.AddCommand(rule.Cmd)
	Cmd.AddCommand(timer.Cmd)
	Cmd.AddCommand(system.Cmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tasmoctl")
	}
	viper.SetEnvPrefix("TASMOCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && options.Verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
