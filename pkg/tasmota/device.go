package tasmota

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Device is one Tasmota unit with its registered command channels. The
// struct itself holds no schedule state: the device firmware is the only
// source of truth for what is installed.
type Device struct {
	id         string
	host       string
	limits     types.Limits
	commanders map[types.Channel]types.Commander
	log        logr.Logger
}

func NewDevice(log logr.Logger, id string, host string, limits types.Limits) *Device {
	return &Device{
		id:         id,
		host:       host,
		limits:     limits,
		commanders: make(map[types.Channel]types.Commander),
		log:        log,
	}
}

// WithCommander registers the transport for a channel and returns the
// device for chaining. Not safe against concurrent CallE; wire channels up
// before use.
func (d *Device) WithCommander(ch types.Channel, c types.Commander) *Device {
	d.commanders[ch] = c
	return d
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.id, d.host)
}

func (d *Device) Id() string {
	return d.id
}

func (d *Device) Host() string {
	return d.host
}

func (d *Device) Limits() types.Limits {
	return d.limits
}

// CallE sends one console command over the selected channel and returns the
// raw response body.
func (d *Device) CallE(ctx context.Context, via types.Channel, cmd string) (string, error) {
	c, ok := d.commanders[via]
	if !ok {
		return "", fmt.Errorf("device %s has no %s channel", d.id, via)
	}
	return c.SendE(ctx, cmd)
}
