package rpc_test

import (
	"context"
	"net"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/pkg/dlsrpc"
	"github.com/duckworthlewis/dlc/server/internal/auth"
	"github.com/duckworthlewis/dlc/server/internal/metrics"
	"github.com/duckworthlewis/dlc/server/internal/rpc"
)

const testKey = "supersecret"

// startServer serves the calculator over an in-memory listener guarded by
// an API key and returns a client dialled with clientKey.
func startServer(t *testing.T, clientKey string) (*dlsrpc.Client, *metrics.Registry) {
	t.Helper()

	reg := metrics.New(nil)
	guard := auth.New("apikey", "x-api-key", testKey)
	srv := grpc.NewServer(grpc.UnaryInterceptor(guard.UnaryInterceptor()))
	dlsrpc.RegisterCalculatorServer(srv, rpc.New(reg))

	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return dlsrpc.NewClient(conn, "x-api-key", clientKey), reg
}

// reducedFirstInnings is a 50-over match whose first innings lost 10 overs
// at 12 overs, one wicket down.
func reducedFirstInnings(t *testing.T) dls.Snapshot {
	t.Helper()
	m, err := dls.NewMatch(50, dls.FullMember)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	if err := m.RecordInterruption(dls.First, 1, dls.WholeOvers(12), dls.WholeOvers(10)); err != nil {
		t.Fatalf("RecordInterruption: %v", err)
	}
	return m.Snapshot()
}

func TestComputeTarget(t *testing.T) {
	client, reg := startServer(t, testKey)

	res, err := client.ComputeTarget(context.Background(), reducedFirstInnings(t), 250)
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	if res.Target != 257 || res.OversAllotted != 40 {
		t.Errorf("result: got target %d from %d overs, want 257 from 40", res.Target, res.OversAllotted)
	}
	if res.G50 != 245 {
		t.Errorf("G50: got %d, want 245", res.G50)
	}

	var computed float64
	for _, mf := range reg.Families() {
		if mf.GetName() == metrics.TargetsComputed {
			computed = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if computed != 1 {
		t.Errorf("targets computed: got %v, want 1", computed)
	}
}

func TestComputeTarget_InvalidScore(t *testing.T) {
	client, _ := startServer(t, testKey)

	_, err := client.ComputeTarget(context.Background(), reducedFirstInnings(t), -4)
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Fatalf("code: got %v, want InvalidArgument (%v)", code, err)
	}
	if !strings.Contains(status.Convert(err).Message(), "InvalidScoreError") {
		t.Errorf("message: got %q, want the error kind", status.Convert(err).Message())
	}
}

func TestComputeTarget_InvalidMatch(t *testing.T) {
	client, _ := startServer(t, testKey)

	snap := reducedFirstInnings(t)
	snap.StartingOvers = 0
	_, err := client.ComputeTarget(context.Background(), snap, 100)
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Errorf("code: got %v, want InvalidArgument (%v)", code, err)
	}
}

func TestResourcePercentage(t *testing.T) {
	client, _ := startServer(t, testKey)

	pct, err := client.ResourcePercentage(context.Background(), dls.WholeOvers(50), 0)
	if err != nil {
		t.Fatalf("ResourcePercentage: %v", err)
	}
	if pct != 100 {
		t.Errorf("R(50, 0): got %v, want 100", pct)
	}

	_, err = client.ResourcePercentage(context.Background(), dls.WholeOvers(10), 10)
	if code := status.Code(err); code != codes.OutOfRange {
		t.Errorf("10 wickets: got %v, want OutOfRange", code)
	}
}

func TestUnauthenticated(t *testing.T) {
	for _, key := range []string{"", "wrong"} {
		client, _ := startServer(t, key)
		_, err := client.ResourcePercentage(context.Background(), dls.WholeOvers(20), 0)
		if code := status.Code(err); code != codes.Unauthenticated {
			t.Errorf("key %q: got %v, want Unauthenticated", key, code)
		}
	}
}
