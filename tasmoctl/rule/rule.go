package rule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/pkg/tasmota/rules"
	"github.com/homectl/go-tasmota/tasmoctl/options"
)

var Cmd = &cobra.Command{
	Use:   "rule",
	Short: "Install, inspect and remove rule-based schedules",
	Args:  cobra.NoArgs,
}

var (
	output      int
	state       string
	pulse       int
	autoDisable bool
)

func addActionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&output, "output", 1, "relay output to act on")
	cmd.Flags().StringVar(&state, "state", "on", "target state (on or off)")
	cmd.Flags().IntVar(&pulse, "pulse", 0, "seconds until the output reverts (0 = no pulse)")
	cmd.Flags().BoolVar(&autoDisable, "auto-disable", false, "disable the rule slot after it fired")
}

func actionIntent(kind rules.IntentKind) (rules.Intent, error) {
	intent := rules.Intent{Kind: kind, Output: output, AutoDisable: autoDisable}
	switch state {
	case "on":
		intent.On = true
	case "off":
		intent.On = false
	default:
		return intent, fmt.Errorf("unknown state %q (want on or off)", state)
	}
	if pulse > 0 {
		p := pulse
		intent.PulseSeconds = &p
	}
	return intent, nil
}

func ruleIndexArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid rule slot %q: %v", arg, err)
	}
	return n, nil
}

func apply(cmd *cobra.Command, intent rules.Intent, ruleIndex int, timerIndex int) error {
	d, err := options.Device()
	if err != nil {
		return err
	}
	compiled, err := rules.Apply(cmd.Context(), hlog.Logger, options.Via, d, intent, ruleIndex, timerIndex)
	if err != nil {
		return err
	}
	fmt.Printf("Rule%d %s\n", compiled.PrimaryIndex, compiled.Primary)
	if compiled.Auxiliary != "" {
		fmt.Printf("Rule%d %s\n", compiled.AuxiliaryIndex, compiled.Auxiliary)
	}
	return nil
}

var showIntent bool

var showCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Show a rule slot, optionally decompiled to its intent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := ruleIndexArg(args[0])
		if err != nil {
			return err
		}
		d, err := options.Device()
		if err != nil {
			return err
		}
		intent, slot, err := rules.ReadIntent(cmd.Context(), hlog.Logger, options.Via, d, n)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(slot, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		if showIntent {
			out, err := json.MarshalIndent(intent, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("Decompiled (%s):\n%s\n", intent.Kind, out)
		}
		return nil
	},
}

var at string

var oneshotCmd = &cobra.Command{
	Use:   "oneshot <slot>",
	Short: "Fire once at an absolute local date-time",
	Long: "Fire once at an absolute local date-time. Uses the given rule " +
		"slot plus the next one for the status-refresh trigger.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := ruleIndexArg(args[0])
		if err != nil {
			return err
		}
		intent, err := actionIntent(rules.KindOneShot)
		if err != nil {
			return err
		}
		when, err := time.ParseInLocation("2006-01-02T15:04", at, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at %q (want 2006-01-02T15:04): %v", at, err)
		}
		intent.When = &when
		return apply(cmd, intent, n, 0)
	},
}

var (
	startDelay int
	timerIndex int
)

var pulseCmd = &cobra.Command{
	Use:   "pulse <slot>",
	Short: "Pulse an output after a countdown from now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := ruleIndexArg(args[0])
		if err != nil {
			return err
		}
		intent, err := actionIntent(rules.KindRelativePulse)
		if err != nil {
			return err
		}
		intent.StartDelaySeconds = &startDelay
		if intent.PulseSeconds == nil {
			return fmt.Errorf("pulse schedules need --pulse > 0")
		}
		return apply(cmd, intent, n, timerIndex)
	},
}

var (
	sunrise bool
	offset  int
)

var sunCmd = &cobra.Command{
	Use:   "sun <slot>",
	Short: "Fire daily at sunset (or sunrise with --sunrise)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := ruleIndexArg(args[0])
		if err != nil {
			return err
		}
		intent, err := actionIntent(rules.KindSunriseSunset)
		if err != nil {
			return err
		}
		sunset := !sunrise
		intent.Sunset = &sunset
		if offset != 0 {
			o := offset
			intent.OffsetMinutes = &o
		}
		return apply(cmd, intent, n, 0)
	},
}

func slotAction(use string, short string, f func(*cobra.Command, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slot>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ruleIndexArg(args[0])
			if err != nil {
				return err
			}
			return f(cmd, n)
		},
	}
}

func init() {
	showCmd.Flags().BoolVar(&showIntent, "intent", false, "decompile the script back to an intent")

	addActionFlags(oneshotCmd)
	oneshotCmd.Flags().StringVar(&at, "at", "", "local date-time, e.g. 2025-09-05T18:30")
	oneshotCmd.MarkFlagRequired("at")

	addActionFlags(pulseCmd)
	pulseCmd.Flags().IntVar(&startDelay, "start", 0, "seconds from now until the pulse starts")
	pulseCmd.Flags().IntVar(&timerIndex, "timer", 1, "countdown timer to use")
	pulseCmd.MarkFlagRequired("start")

	addActionFlags(sunCmd)
	sunCmd.Flags().BoolVar(&sunrise, "sunrise", false, "anchor on sunrise instead of sunset")
	sunCmd.Flags().IntVar(&offset, "offset", 0, "minutes from the anchor event")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(oneshotCmd)
	Cmd.AddCommand(pulseCmd)
	Cmd.AddCommand(sunCmd)
	Cmd.AddCommand(slotAction("enable", "Enable a rule slot", func(cmd *cobra.Command, n int) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return rules.Enable(cmd.Context(), hlog.Logger, options.Via, d, n)
	}))
	Cmd.AddCommand(slotAction("disable", "Disable a rule slot", func(cmd *cobra.Command, n int) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return rules.Disable(cmd.Context(), hlog.Logger, options.Via, d, n)
	}))
	Cmd.AddCommand(slotAction("clear", "Disable a rule slot and erase its script", func(cmd *cobra.Command, n int) error {
		d, err := options.Device()
		if err != nil {
			return err
		}
		return rules.Clear(cmd.Context(), hlog.Logger, options.Via, d, n)
	}))
}
