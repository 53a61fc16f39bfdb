package sntp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
)

const receiveBufferSize = 1024

var (
	ErrTransport  = errors.New("transport failure")
	ErrNoResponse = errors.New("server did not respond")
)

type QueryResult struct {
	Server  string
	Time    time.Time // server receive time, whole seconds
	Stratum byte
	Leap    byte
	Reply   *ntp.Message
}

type Client struct {
	address string
	timeout time.Duration
	dial    Dialer
	metrics *Metrics
}

type Option func(*Client)

// WithTimeout bounds the wait for a reply. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func WithDialer(dial Dialer) Option {
	return func(c *Client) { c.dial = dial }
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) { c.metrics = metrics }
}

func NewClient(address string, options ...Option) *Client {
	c := &Client{address: address, dial: DialUDP}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Address() string {
	return c.address
}

// Query sends one client request and decodes the reply. Any failure ends the
// query; there are no retries.
func (c *Client) Query(ctx context.Context) (*QueryResult, error) {
	start := time.Now()
	result, err := c.query(ctx)
	if c.metrics != nil {
		c.metrics.observe(c.address, time.Since(start), err)
	}
	if err != nil {
		info("Query", c.address, "failed:", err)
		return nil, err
	}
	info("Query", c.address, "stratum", result.Stratum, "time", result.Time)
	return result, nil
}

func (c *Client) query(ctx context.Context) (*QueryResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	transport, err := c.dial(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransport, c.address, err)
	}
	defer transport.Close()

	request := ntp.Encode(ntp.NewClientRequest())
	if err := transport.Send(request); err != nil {
		return nil, fmt.Errorf("%w: send: %v", ErrTransport, err)
	}
	debug("Sent", len(request), "bytes to", c.address)

	buffer := make([]byte, receiveBufferSize)
	n, err := transport.Receive(buffer)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoResponse, c.address, err)
		}
		return nil, fmt.Errorf("%w: receive: %v", ErrTransport, err)
	}
	debug("Received", n, "bytes from", c.address)

	reply, err := ntp.Decode(buffer[:n])
	if err != nil {
		return nil, err
	}

	return &QueryResult{
		Server:  c.address,
		Time:    ntp.ToCalendarTime(ntp.RawField(reply.ReceiveTimestamp)),
		Stratum: reply.Stratum,
		Leap:    reply.Leap(),
		Reply:   reply,
	}, nil
}

// Query is a one-off query without a Client.
func Query(ctx context.Context, address string, timeout time.Duration) (*QueryResult, error) {
	return NewClient(address, WithTimeout(timeout)).Query(ctx)
}
