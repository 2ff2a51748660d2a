package options

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/homectl/go-tasmota/hlog"
	"github.com/homectl/go-tasmota/pkg/tasmota"
	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Flags shared by every subcommand.
var (
	Verbose bool
	Debug   bool
	ViaName string

	// Via is resolved from ViaName by the root command before any
	// subcommand runs.
	Via types.Channel
)

func ParseChannel(name string) (types.Channel, error) {
	switch strings.ToLower(name) {
	case "", "http":
		return types.ChannelHttp, nil
	case "mqtt":
		return types.ChannelMqtt, nil
	default:
		return 0, fmt.Errorf("unknown channel %q (want http or mqtt)", name)
	}
}

// Device builds the configured device from viper state.
func Device() (*tasmota.Device, error) {
	cfg, err := tasmota.ConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return tasmota.NewDeviceFromConfig(hlog.Logger, cfg)
}
