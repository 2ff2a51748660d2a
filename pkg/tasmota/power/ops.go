package power

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

func checkOutput(d types.Device, output int) error {
	if output < 1 || output > d.Limits().Relays {
		return fmt.Errorf("%w: output %d not in [1,%d]", types.ErrOutOfRange, output, d.Limits().Relays)
	}
	return nil
}

// parseState digs the relay state out of the echoed JSON, which is
// {"POWER1":"ON"} on multi-relay builds and {"POWER":"ON"} on single-relay
// ones.
func parseState(body string, output int) (bool, error) {
	var echo map[string]string
	if err := json.Unmarshal([]byte(body), &echo); err != nil {
		return false, fmt.Errorf("%w: power response %q: %v", types.ErrInvalidFormat, body, err)
	}
	for _, key := range []string{fmt.Sprintf("POWER%d", output), "POWER"} {
		if v, ok := echo[key]; ok {
			return strings.EqualFold(v, "ON"), nil
		}
	}
	return false, fmt.Errorf("%w: power response %q lacks a POWER key", types.ErrInvalidFormat, body)
}

// Set switches a relay and returns the state the device echoed back.
func Set(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, output int, on bool) (bool, error) {
	if err := checkOutput(d, output); err != nil {
		return false, err
	}
	v := 0
	if on {
		v = 1
	}
	out, err := d.CallE(ctx, via, fmt.Sprintf("Power%d %d", output, v))
	if err != nil {
		log.Error(err, "Unable to set power", "device", d.Id(), "output", output, "on", on)
		return false, err
	}
	return parseState(out, output)
}

// Toggle flips a relay and returns the resulting state.
func Toggle(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, output int) (bool, error) {
	if err := checkOutput(d, output); err != nil {
		return false, err
	}
	out, err := d.CallE(ctx, via, fmt.Sprintf("Power%d 2", output))
	if err != nil {
		log.Error(err, "Unable to toggle power", "device", d.Id(), "output", output)
		return false, err
	}
	return parseState(out, output)
}

// Get queries a relay without changing it.
func Get(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, output int) (bool, error) {
	if err := checkOutput(d, output); err != nil {
		return false, err
	}
	out, err := d.CallE(ctx, via, fmt.Sprintf("Power%d", output))
	if err != nil {
		log.Error(err, "Unable to query power", "device", d.Id(), "output", output)
		return false, err
	}
	return parseState(out, output)
}
