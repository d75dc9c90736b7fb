package rpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/pkg/dlsrpc"
	"github.com/duckworthlewis/dlc/server/internal/metrics"
)

// Service implements dlsrpc.CalculatorServer. It is stateless.
type Service struct {
	metrics *metrics.Registry
}

var _ dlsrpc.CalculatorServer = (*Service)(nil)

// New creates a Service. m may be nil.
func New(m *metrics.Registry) *Service {
	return &Service{metrics: m}
}

// ComputeTarget rebuilds the match from the request and returns team 2's
// target for the given team 1 score.
func (s *Service) ComputeTarget(ctx context.Context, req *dlsrpc.TargetRequest) (*dlsrpc.TargetResponse, error) {
	m, err := dls.Restore(req.Match)
	if err != nil {
		return nil, s.fail(err)
	}
	res, err := m.ComputeTarget(req.Team1Score)
	if err != nil {
		return nil, s.fail(err)
	}
	s.metrics.TargetComputed()

	slog.Debug("rpc: target computed",
		"overs", req.Match.StartingOvers,
		"score", req.Team1Score,
		"target", res.Target,
	)
	return &dlsrpc.TargetResponse{Result: res}, nil
}

// ResourcePercentage looks up the Standard Edition table.
func (s *Service) ResourcePercentage(ctx context.Context, req *dlsrpc.ResourceRequest) (*dlsrpc.ResourceResponse, error) {
	pct, err := dls.StandardEdition().Percentage(req.Overs, req.Wickets)
	if err != nil {
		return nil, s.fail(err)
	}
	return &dlsrpc.ResourceResponse{Percentage: pct}, nil
}

// fail counts err and converts it to a gRPC status.
func (s *Service) fail(err error) error {
	kind := dls.Kind(err)
	if kind == "" {
		s.metrics.Error("Internal")
		slog.Error("rpc: unexpected error", "err", err)
		return status.Error(codes.Internal, err.Error())
	}
	s.metrics.Error(kind)

	code := codes.InvalidArgument
	if errors.Is(err, dls.ErrOutOfRange) {
		code = codes.OutOfRange
	}
	return status.Errorf(code, "%s: %v", kind, err)
}
