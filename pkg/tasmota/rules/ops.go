package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Write stores script in rule slot n without enabling it.
func Write(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int, script string) error {
	_, err := d.CallE(ctx, via, fmt.Sprintf("Rule%d %s", n, script))
	if err != nil {
		log.Error(err, "Unable to write rule script", "device", d.Id(), "rule", n)
		return err
	}
	return nil
}

// Enable activates rule slot n.
func Enable(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) error {
	_, err := d.CallE(ctx, via, fmt.Sprintf("Rule%d 1", n))
	if err != nil {
		log.Error(err, "Unable to enable rule", "device", d.Id(), "rule", n)
		return err
	}
	return nil
}

// Disable deactivates rule slot n, leaving its script in place.
func Disable(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) error {
	_, err := d.CallE(ctx, via, fmt.Sprintf("Rule%d 0", n))
	if err != nil {
		log.Error(err, "Unable to disable rule", "device", d.Id(), "rule", n)
		return err
	}
	return nil
}

// Clear disables rule slot n and replaces its script with the empty-rule
// literal.
func Clear(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) error {
	if err := Disable(ctx, log, via, d, n); err != nil {
		return err
	}
	// A single double quote is the console syntax for "no script".
	return Write(ctx, log, via, d, n, `"`)
}

// ArmTimer starts countdown timer n at the given number of seconds. When it
// expires the device fires the Rules#Timer=<n> trigger.
func ArmTimer(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int, seconds int) error {
	_, err := d.CallE(ctx, via, fmt.Sprintf("RuleTimer%d %d", n, seconds))
	if err != nil {
		log.Error(err, "Unable to arm rule timer", "device", d.Id(), "timer", n, "seconds", seconds)
		return err
	}
	return nil
}

// slotResponse is the nested form the firmware answers a bare "Rule<n>"
// query with, keyed by "Rule<n>".
type slotResponse struct {
	State       string `json:"State"`
	Once        string `json:"Once"`
	StopOnError string `json:"StopOnError"`
	Length      int    `json:"Length"`
	Free        int    `json:"Free"`
	Rules       string `json:"Rules"`
}

// Read fetches and parses rule slot n.
func Read(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) (*Slot, error) {
	if n < 1 || n > d.Limits().RuleSlots {
		return nil, fmt.Errorf("%w: rule slot %d not in [1,%d]", types.ErrOutOfRange, n, d.Limits().RuleSlots)
	}
	out, err := d.CallE(ctx, via, fmt.Sprintf("Rule%d", n))
	if err != nil {
		log.Error(err, "Unable to read rule", "device", d.Id(), "rule", n)
		return nil, err
	}
	var body map[string]slotResponse
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		return nil, fmt.Errorf("%w: rule %d response %q: %v", types.ErrInvalidFormat, n, out, err)
	}
	sr, ok := body[fmt.Sprintf("Rule%d", n)]
	if !ok {
		return nil, fmt.Errorf("%w: rule %d response %q lacks its own key", types.ErrInvalidFormat, n, out)
	}
	return &Slot{
		Index:       n,
		Enabled:     strings.EqualFold(sr.State, "ON"),
		Once:        strings.EqualFold(sr.Once, "ON"),
		StopOnError: strings.EqualFold(sr.StopOnError, "ON"),
		Length:      sr.Length,
		Free:        sr.Free,
		Script:      sr.Rules,
	}, nil
}

// Apply compiles intent and installs it: write and enable the primary
// script, then the auxiliary one when present, then arm the countdown for
// relative pulses. The device has no multi-write transaction, so a failure
// mid-sequence aborts the rest and may leave earlier writes in place;
// re-running the same Apply is idempotent.
func Apply(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, intent Intent, ruleIndex int, timerIndex int) (*Compiled, error) {
	compiled, err := Compile(intent, ruleIndex, timerIndex, d.Limits())
	if err != nil {
		log.Error(err, "Unable to compile intent", "device", d.Id(), "kind", intent.Kind, "rule", ruleIndex)
		return nil, err
	}
	log.Info("Applying schedule", "device", d.Id(), "kind", intent.Kind, "rule", compiled.PrimaryIndex, "script", compiled.Primary)

	if err := Write(ctx, log, via, d, compiled.PrimaryIndex, compiled.Primary); err != nil {
		return nil, err
	}
	if err := Enable(ctx, log, via, d, compiled.PrimaryIndex); err != nil {
		return nil, err
	}
	if compiled.Auxiliary != "" {
		if err := Write(ctx, log, via, d, compiled.AuxiliaryIndex, compiled.Auxiliary); err != nil {
			return nil, err
		}
		if err := Enable(ctx, log, via, d, compiled.AuxiliaryIndex); err != nil {
			return nil, err
		}
	}
	if intent.Kind == KindRelativePulse {
		if err := ArmTimer(ctx, log, via, d, timerIndex, *intent.StartDelaySeconds); err != nil {
			return nil, err
		}
	}
	return compiled, nil
}

// ReadIntent reads rule slot n and decompiles its script. The returned
// intent is best-effort; see Decompile.
func ReadIntent(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) (Intent, *Slot, error) {
	slot, err := Read(ctx, log, via, d, n)
	if err != nil {
		return Intent{Kind: KindUnknown}, nil, err
	}
	return Decompile(slot.Script, n, d.Limits()), slot, nil
}
