package tmqtt

// <https://tasmota.github.io/docs/MQTT/>
//
// Commands go to cmnd/<topic>/<Command> with the arguments as payload; the
// device publishes the echoed JSON on stat/<topic>/RESULT.

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-logr/logr"
)

const DefaultTimeout = 10 * time.Second

// Channel sends commands to one device through an MQTT broker. Commands are
// serialized: the RESULT topic carries no correlation id, so only one
// command may be in flight at a time.
type Channel struct {
	mqtt    mqtt.Client
	topic   string // the device's MQTT topic, e.g. "sonoff-garage"
	timeout time.Duration
	log     logr.Logger

	mu      sync.Mutex
	results chan string
}

// NewChannel connects to the broker and subscribes to the device's RESULT
// topic. brokerURL is e.g. "tcp://broker.local:1883".
func NewChannel(log logr.Logger, brokerURL string, topic string, username string, password string, timeout time.Duration) (*Channel, error) {
	clientId := fmt.Sprintf("%v%v", path.Base(os.Args[0]), os.Getpid())

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientId)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Channel{
		mqtt:    mqtt.NewClient(opts),
		topic:   topic,
		timeout: timeout,
		log:     log,
		results: make(chan string, 1),
	}

	token := c.mqtt.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		log.Error(err, "Unable to connect to MQTT broker", "broker", brokerURL)
		return nil, err
	}

	resultTopic := fmt.Sprintf("stat/%s/RESULT", topic)
	token = c.mqtt.Subscribe(resultTopic, 1 /*at-least-once*/, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case c.results <- string(msg.Payload()):
		default:
			// No command waiting: a telemetry-triggered RESULT, drop it.
		}
	})
	if !token.WaitTimeout(timeout) || token.Error() != nil {
		c.mqtt.Disconnect(250 /* milliseconds */)
		return nil, fmt.Errorf("unable to subscribe to %s: %v", resultTopic, token.Error())
	}

	log.Info("MQTT channel ready", "broker", brokerURL, "topic", topic, "client_id", clientId)
	return c, nil
}

// SendE publishes one command and waits for the device's RESULT echo.
func (c *Channel) SendE(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drain a stale result left over from an earlier timeout.
	select {
	case <-c.results:
	default:
	}

	word, args, _ := strings.Cut(cmd, " ")
	cmndTopic := fmt.Sprintf("cmnd/%s/%s", c.topic, word)
	c.log.V(1).Info("Publishing", "topic", cmndTopic, "payload", args)

	token := c.mqtt.Publish(cmndTopic, 1 /*at-least-once*/, false, args)
	if !token.WaitTimeout(c.timeout) {
		return "", fmt.Errorf("timed out publishing to %s", cmndTopic)
	}
	if err := token.Error(); err != nil {
		c.log.Error(err, "MQTT publish error", "topic", cmndTopic)
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.timeout):
		return "", fmt.Errorf("no RESULT from %s within %s", c.topic, c.timeout)
	case body := <-c.results:
		c.log.V(1).Info("Received", "topic", c.topic, "body", body)
		return body, nil
	}
}

// Close disconnects from the broker.
func (c *Channel) Close() {
	if c.mqtt.IsConnected() {
		c.mqtt.Disconnect(250 /* milliseconds */)
	}
}
