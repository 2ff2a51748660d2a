package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/pkg/tasmota/daymask"
	"github.com/homectl/go-tasmota/pkg/tasmota/timers"
	"github.com/homectl/go-tasmota/tasmoctl/options"
)

var Cmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the native weekly timer slots",
	Args:  cobra.NoArgs,
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func parseDays(s string) (daymask.Set, error) {
	set := daymask.NewSet()
	if s == "" {
		return set, nil
	}
	for _, name := range strings.Split(s, ",") {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		set[d] = struct{}{}
	}
	return set, nil
}

var (
	days      string
	onTime    string
	offTime   string
	outputs   []int
	strategy  string
	startSlot int
	ruleIndex int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Install a shared on/off daily schedule for several outputs",
	Long: "Install a shared on/off daily schedule for several outputs, " +
		"either as native timer slots (two per output, day-filtered) or as " +
		"one rule script (day filter not supported by that trigger form).",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := parseDays(days)
		if err != nil {
			return err
		}

		plan := timers.Plan{
			Days:      set,
			On:        onTime,
			Off:       offTime,
			Outputs:   outputs,
			StartSlot: startSlot,
			RuleIndex: ruleIndex,
		}
		switch strings.ToLower(strategy) {
		case "timers":
			plan.Strategy = timers.StrategyTimers
		case "rule":
			plan.Strategy = timers.StrategyRuleBacklog
		default:
			return fmt.Errorf("unknown strategy %q (want timers or rule)", strategy)
		}

		d, err := options.Device()
		if err != nil {
			return err
		}
		return timers.Apply(cmd.Context(), hlog.Logger, options.Via, d, plan)
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the global timer subsystem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return timers.EnableAll(cmd.Context(), hlog.Logger, options.Via, d)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the global timer subsystem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return timers.DisableAll(cmd.Context(), hlog.Logger, options.Via, d)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&days, "days", "", "weekdays, e.g. mon,wed,sat (empty = none)")
	scheduleCmd.Flags().StringVar(&onTime, "on", "", "daily on time, 24-hour HH:mm")
	scheduleCmd.Flags().StringVar(&offTime, "off", "", "daily off time, 24-hour HH:mm")
	scheduleCmd.Flags().IntSliceVar(&outputs, "outputs", nil, "relay outputs, e.g. 1,2")
	scheduleCmd.Flags().StringVar(&strategy, "strategy", "timers", "allocation strategy (timers or rule)")
	scheduleCmd.Flags().IntVar(&startSlot, "start-slot", 1, "first timer slot (timers strategy)")
	scheduleCmd.Flags().IntVar(&ruleIndex, "rule", 1, "rule slot (rule strategy)")
	scheduleCmd.MarkFlagRequired("on")
	scheduleCmd.MarkFlagRequired("off")
	scheduleCmd.MarkFlagRequired("outputs")

	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(enableCmd)
	Cmd.AddCommand(disableCmd)
}
