package system

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/pkg/tasmota/system"
	"github.com/homectl/go-tasmota/tasmoctl/options"
)

var Cmd = &cobra.Command{
	Use:   "system",
	Short: "Device clock, timezone and location",
	Args:  cobra.NoArgs,
}

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Show the device's local time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		t, err := system.Time(cmd.Context(), hlog.Logger, options.Via, d)
		if err != nil {
			return err
		}
		fmt.Println(t)
		return nil
	},
}

var timezoneCmd = &cobra.Command{
	Use:   "timezone <tz>",
	Short: "Set the device timezone, e.g. +01:00 or 99",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return system.SetTimezone(cmd.Context(), hlog.Logger, options.Via, d, args[0])
	},
}

var locationCmd = &cobra.Command{
	Use:   "location <latitude> <longitude>",
	Short: "Set the coordinates used for sunrise/sunset triggers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %v", args[0], err)
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %v", args[1], err)
		}
		d, err := options.Device()
		if err != nil {
			return err
		}
		return system.SetLocation(cmd.Context(), hlog.Logger, options.Via, d, lat, lon)
	},
}

func init() {
	Cmd.AddCommand(timeCmd)
	Cmd.AddCommand(timezoneCmd)
	Cmd.AddCommand(locationCmd)
}
