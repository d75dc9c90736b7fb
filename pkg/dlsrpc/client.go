package dlsrpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// Client calls a remote Calculator. Transient failures such as
// codes.Unavailable are retried with backoff; rejected requests are not.
type Client struct {
	conn     grpc.ClientConnInterface
	header   string
	key      string
	attempts int
	initial  time.Duration
}

// NewClient wraps an existing connection. When key is non-empty it is sent
// in the header metadata entry on every call.
func NewClient(conn grpc.ClientConnInterface, header, key string) *Client {
	return &Client{
		conn:     conn,
		header:   header,
		key:      key,
		attempts: defaultAttempts,
		initial:  backoffInitial,
	}
}

// WithRetry sets how many attempts each call makes and the first backoff
// delay. attempts below one means one.
func (c *Client) WithRetry(attempts int, initial time.Duration) *Client {
	c.attempts = attempts
	c.initial = initial
	return c
}

// Dial opens a plaintext connection to addr. The caller closes the returned
// connection when done.
func Dial(addr, header, key string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dlsrpc: dial %s: %w", addr, err)
	}
	return NewClient(conn, header, key), conn, nil
}

// ComputeTarget asks the server for team 2's target in m.
func (c *Client) ComputeTarget(ctx context.Context, m dls.Snapshot, team1Score int) (dls.TargetResult, error) {
	var resp TargetResponse
	req := &TargetRequest{Match: m, Team1Score: team1Score}
	if err := c.invoke(ctx, ComputeTargetMethod, req, &resp); err != nil {
		return dls.TargetResult{}, err
	}
	return resp.Result, nil
}

// ResourcePercentage performs a remote table lookup.
func (c *Client) ResourcePercentage(ctx context.Context, overs dls.Overs, wickets int) (float64, error) {
	var resp ResourceResponse
	req := &ResourceRequest{Overs: overs, Wickets: wickets}
	if err := c.invoke(ctx, ResourcePercentageMethod, req, &resp); err != nil {
		return 0, err
	}
	return resp.Percentage, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	return retry(ctx, c.attempts, newBackoff(c.initial), func(ctx context.Context) error {
		return c.conn.Invoke(c.outgoing(ctx), method, req, resp, grpc.CallContentSubtype(CodecName))
	})
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.key == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, c.header, c.key)
}
