// SPDX-License-Identifier: MPL-2.0

package chainrpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/wasmforge/wasmforge/internal/issue"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryCount = 2
)

type (
	// Client queries one network's RPC endpoint.
	Client struct {
		network string
		http    *resty.Client
	}

	// Option configures a Client.
	Option func(*resty.Client)

	// Status is the node status reported by /status.
	Status struct {
		ChainID         string
		Moniker         string
		NodeVersion     string
		LatestHeight    int64
		LatestBlockTime time.Time
		CatchingUp      bool
	}
)

// WithRetryCount sets how many times failed requests are retried.
func WithRetryCount(n int) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(n)
	}
}

// WithRetryWaitTime sets the wait between retries.
func WithRetryWaitTime(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryWaitTime(d).SetRetryMaxWaitTime(d)
	}
}

// New returns a client for the network named network at endpoint. A zero
// timeout uses the default of 10s.
func New(network, endpoint string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := resty.New().
		SetBaseURL(strings.TrimSuffix(endpoint, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)
	for _, opt := range opts {
		opt(hc)
	}
	return &Client{network: network, http: hc}
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// Status fetches the node status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/status")
	if err != nil {
		return Status{}, c.requestFailed(err)
	}
	if resp.IsError() {
		return Status{}, c.requestFailed(fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String()))
	}
	return c.parseStatus(resp.Body())
}

func (c *Client) parseStatus(body []byte) (Status, error) {
	if !gjson.ValidBytes(body) {
		return Status{}, c.requestFailed(fmt.Errorf("invalid JSON response"))
	}
	doc := gjson.ParseBytes(body)
	if rpcErr := doc.Get("error"); rpcErr.Exists() {
		return Status{}, c.requestFailed(fmt.Errorf("rpc error: %s", rpcErr.Get("message").String()))
	}

	result := doc.Get("result")
	if !result.Get("node_info.network").Exists() {
		return Status{}, c.requestFailed(fmt.Errorf("response has no node_info"))
	}

	status := Status{
		ChainID:      result.Get("node_info.network").String(),
		Moniker:      result.Get("node_info.moniker").String(),
		NodeVersion:  result.Get("node_info.version").String(),
		LatestHeight: result.Get("sync_info.latest_block_height").Int(),
		CatchingUp:   result.Get("sync_info.catching_up").Bool(),
	}
	if t := result.Get("sync_info.latest_block_time"); t.Exists() {
		status.LatestBlockTime = t.Time()
	}
	return status, nil
}

func (c *Client) requestFailed(err error) error {
	return issue.Wrap(issue.NetworkRequestFailed, map[string]any{"network": c.network, "error": err.Error()}, err)
}
