package tasmota

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/viper"

	"github.com/homectl/go-tasmota/pkg/tasmota/ratelimit"
	"github.com/homectl/go-tasmota/pkg/tasmota/shttp"
	"github.com/homectl/go-tasmota/pkg/tasmota/tmqtt"
	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// Config describes how to reach one device. Loaded from viper under the
// "device" key; the MQTT fields are optional.
type Config struct {
	Id       string
	Host     string
	Username string
	Password string

	Broker   string // MQTT broker URL, empty disables the MQTT channel
	Topic    string // the device's MQTT topic
	MqttUser string
	MqttPass string

	CommandInterval time.Duration // minimum spacing between HTTP commands
	Timeout         time.Duration

	Limits types.Limits
}

// ConfigFromViper reads the device configuration. Only host is mandatory;
// limits default to stock firmware when not overridden.
func ConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg := Config{
		Id:              v.GetString("device.id"),
		Host:            v.GetString("device.host"),
		Username:        v.GetString("device.username"),
		Password:        v.GetString("device.password"),
		Broker:          v.GetString("device.broker"),
		Topic:           v.GetString("device.topic"),
		MqttUser:        v.GetString("device.mqtt_username"),
		MqttPass:        v.GetString("device.mqtt_password"),
		CommandInterval: v.GetDuration("device.command_interval"),
		Timeout:         v.GetDuration("device.timeout"),
		Limits:          types.DefaultLimits(),
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("no device.host configured")
	}
	if cfg.Id == "" {
		cfg.Id = cfg.Host
	}
	if n := v.GetInt("device.limits.relays"); n > 0 {
		cfg.Limits.Relays = n
	}
	if n := v.GetInt("device.limits.timer_slots"); n > 0 {
		cfg.Limits.TimerSlots = n
	}
	if n := v.GetInt("device.limits.rule_slots"); n > 0 {
		cfg.Limits.RuleSlots = n
	}
	if n := v.GetInt("device.limits.rule_timers"); n > 0 {
		cfg.Limits.RuleTimers = n
	}
	return &cfg, nil
}

// NewDeviceFromConfig wires a Device with an HTTP channel and, when a broker
// is configured, an MQTT channel.
func NewDeviceFromConfig(log logr.Logger, cfg *Config) (*Device, error) {
	d := NewDevice(log, cfg.Id, cfg.Host, cfg.Limits)

	limiter := ratelimit.New(cfg.CommandInterval)
	hc, err := shttp.NewChannel(log, cfg.Id, cfg.Host, cfg.Username, cfg.Password, cfg.Timeout, limiter)
	if err != nil {
		return nil, err
	}
	d.WithCommander(types.ChannelHttp, hc)

	if cfg.Broker != "" {
		topic := cfg.Topic
		if topic == "" {
			topic = cfg.Id
		}
		mc, err := tmqtt.NewChannel(log, cfg.Broker, topic, cfg.MqttUser, cfg.MqttPass, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		d.WithCommander(types.ChannelMqtt, mc)
	}

	return d, nil
}
