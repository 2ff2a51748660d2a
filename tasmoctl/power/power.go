package power

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/pkg/tasmota/power"
	"github.com/homectl/go-tasmota/tasmoctl/options"
)

var Cmd = &cobra.Command{
	Use:   "power <output> [on|off|toggle]",
	Short: "Switch or query a relay",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid output %q: %v", args[0], err)
		}

		d, err := options.Device()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		log := hlog.Logger
		var state bool
		if len(args) == 1 {
			state, err = power.Get(ctx, log, options.Via, d, output)
		} else {
			switch args[1] {
			case "on":
				state, err = power.Set(ctx, log, options.Via, d, output, true)
			case "off":
				state, err = power.Set(ctx, log, options.Via, d, output, false)
			case "toggle":
				state, err = power.Toggle(ctx, log, options.Via, d, output)
			default:
				return fmt.Errorf("unknown action %q (want on, off or toggle)", args[1])
			}
		}
		if err != nil {
			return err
		}

		if state {
			fmt.Printf("Power%d ON\n", output)
		} else {
			fmt.Printf("Power%d OFF\n", output)
		}
		return nil
	},
}
