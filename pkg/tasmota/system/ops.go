package system

// Device clock and location. Sunrise/sunset rule triggers only make sense
// once the device knows its timezone and coordinates, so schedule setup
// usually starts here.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Time returns the device's local time string, e.g. "2025-09-05T18:30:12".
func Time(ctx context.Context, log logr.Logger, via types.Channel, d types.Device) (string, error) {
	out, err := d.CallE(ctx, via, "Time")
	if err != nil {
		log.Error(err, "Unable to query device time", "device", d.Id())
		return "", err
	}
	var echo struct {
		Time string `json:"Time"`
	}
	if err := json.Unmarshal([]byte(out), &echo); err != nil {
		return "", fmt.Errorf("%w: time response %q: %v", types.ErrInvalidFormat, out, err)
	}
	return echo.Time, nil
}

// SetTimezone configures the device timezone. tz is either a UTC offset
// such as "+01:00" or "99" to follow the configured DST policy.
func SetTimezone(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, tz string) error {
	_, err := d.CallE(ctx, via, fmt.Sprintf("Timezone %s", tz))
	if err != nil {
		log.Error(err, "Unable to set timezone", "device", d.Id(), "tz", tz)
		return err
	}
	return nil
}

// SetLocation configures the coordinates the firmware derives sunrise and
// sunset from. Two separate writes; a failure between them leaves the
// device with only the latitude updated.
func SetLocation(ctx context.Context, log logr.Logger, via types.Channel, d types.Device, latitude float64, longitude float64) error {
	if _, err := d.CallE(ctx, via, fmt.Sprintf("Latitude %f", latitude)); err != nil {
		log.Error(err, "Unable to set latitude", "device", d.Id(), "latitude", latitude)
		return err
	}
	if _, err := d.CallE(ctx, via, fmt.Sprintf("Longitude %f", longitude)); err != nil {
		log.Error(err, "Unable to set longitude", "device", d.Id(), "longitude", longitude)
		return err
	}
	return nil
}
