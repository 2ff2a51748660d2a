package shttp

// <https://tasmota.github.io/docs/Commands/#with-web-requests>
//
// Every console command is a GET on /cm with the command text in the cmnd
// query parameter. The device answers with a small JSON object.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/homectl/go-tasmota/pkg/tasmota/ratelimit"
)

const DefaultTimeout = 5 * time.Second

// Channel sends commands to one device over its web API. The target host is
// fixed at construction; reconfiguring means building a new Channel, there
// is no locking against in-flight calls.
type Channel struct {
	client   *http.Client
	base     *url.URL
	username string
	password string
	deviceId string
	limiter  *ratelimit.Limiter
	log      logr.Logger
}

// NewChannel builds an HTTP command channel for the device at host
// (hostname, host:port or IP). Credentials may be empty when the device web
// interface is unprotected. limiter may be nil.
func NewChannel(log logr.Logger, deviceId string, host string, username string, password string, timeout time.Duration, limiter *ratelimit.Limiter) (*Channel, error) {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid device host %q: %w", host, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Channel{
		client:   &http.Client{Timeout: timeout},
		base:     base,
		username: username,
		password: password,
		deviceId: deviceId,
		limiter:  limiter,
		log:      log,
	}, nil
}

// SendE issues one command and returns the raw response body.
func (c *Channel) SendE(ctx context.Context, cmd string) (string, error) {
	if err := c.limiter.Wait(ctx, c.deviceId); err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("cmnd", cmd)
	if c.username != "" {
		values.Set("user", c.username)
		values.Set("password", c.password)
	}
	requestURL := fmt.Sprintf("%s/cm?%s", strings.TrimRight(c.base.String(), "/"), values.Encode())

	c.log.V(1).Info("Sending", "device", c.deviceId, "cmd", cmd, "url", requestURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		c.log.Error(err, "HTTP error", "device", c.deviceId, "cmd", cmd)
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.Error(err, "HTTP error reading response", "device", c.deviceId, "cmd", cmd)
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("device answered %s: %s", res.Status, strings.TrimSpace(string(body)))
		c.log.Error(err, "HTTP error", "device", c.deviceId, "cmd", cmd)
		return "", err
	}

	c.log.V(1).Info("Received", "device", c.deviceId, "body", string(body))
	return string(body), nil
}
