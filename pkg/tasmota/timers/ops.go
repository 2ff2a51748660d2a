package timers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// WriteSlot stores one timer definition in slot n.
func WriteSlot(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int, slot Slot) error {
	if n < 1 || n > d.Limits().TimerSlots {
		return fmt.Errorf("%w: timer slot %d not in [1,%d]", types.ErrOutOfRange, n, d.Limits().TimerSlots)
	}
	payload, err := json.Marshal(slot)
	if err != nil {
		return err
	}
	_, err = d.CallE(ctx, via, fmt.Sprintf("Timer%d %s", n, payload))
	if err != nil {
		log.Error(err, "Unable to write timer slot", "device", d.Id(), "timer", n)
		return err
	}
	return nil
}

// ClearSlot disables slot n, keeping nothing of its definition enabled.
func ClearSlot(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, n int) error {
	if n < 1 || n > d.Limits().TimerSlots {
		return fmt.Errorf("%w: timer slot %d not in [1,%d]", types.ErrOutOfRange, n, d.Limits().TimerSlots)
	}
	_, err := d.CallE(ctx, via, fmt.Sprintf(`Timer%d {"Enable":0}`, n))
	if err != nil {
		log.Error(err, "Unable to clear timer slot", "device", d.Id(), "timer", n)
		return err
	}
	return nil
}

// EnableAll switches the global timer subsystem on. Individual slot Enable
// flags have no effect while it is off.
func EnableAll(ctx context.Context, log logr.Logger, via types.Channel, d types.Device) error {
	_, err := d.CallE(ctx, via, "Timers 1")
	if err != nil {
		log.Error(err, "Unable to enable timers", "device", d.Id())
		return err
	}
	return nil
}

// DisableAll switches the global timer subsystem off.
func DisableAll(ctx context.Context, log logr.Logger, via types.Channel, d types.Device) error {
	_, err := d.CallE(ctx, via, "Timers 0")
	if err != nil {
		log.Error(err, "Unable to disable timers", "device", d.Id())
		return err
	}
	return nil
}

// Apply allocates the plan against the device's limits and sends the
// resulting commands in order. Validation is complete before the first
// send; a transport failure aborts the remaining commands without rollback,
// and re-running the same Apply is idempotent.
func Apply(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, plan Plan) error {
	cmds, err := Allocate(plan, d.Limits())
	if err != nil {
		log.Error(err, "Unable to allocate schedule", "device", d.Id(), "strategy", plan.Strategy)
		return err
	}
	log.Info("Applying timer plan", "device", d.Id(), "strategy", plan.Strategy, "commands", len(cmds))
	for _, cmd := range cmds {
		if _, err := d.CallE(ctx, via, cmd); err != nil {
			log.Error(err, "Unable to apply timer plan", "device", d.Id(), "cmd", cmd)
			return err
		}
	}
	return nil
}
