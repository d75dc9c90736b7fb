package dlsrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dls.v1.Calculator"

// Full method names.
const (
	ComputeTargetMethod      = "/" + ServiceName + "/ComputeTarget"
	ResourcePercentageMethod = "/" + ServiceName + "/ResourcePercentage"
)

// TargetRequest asks for team 2's target in the given match.
type TargetRequest struct {
	Match      dls.Snapshot `json:"match"`
	Team1Score int          `json:"team_1_score"`
}

// TargetResponse carries the computed target.
type TargetResponse struct {
	Result dls.TargetResult `json:"result"`
}

// ResourceRequest is a single resource table lookup.
type ResourceRequest struct {
	Overs   dls.Overs `json:"overs"`
	Wickets int       `json:"wickets"`
}

// ResourceResponse is the percentage for a ResourceRequest.
type ResourceResponse struct {
	Percentage float64 `json:"percentage"`
}

// CalculatorServer is implemented by the server side of the service.
type CalculatorServer interface {
	ComputeTarget(context.Context, *TargetRequest) (*TargetResponse, error)
	ResourcePercentage(context.Context, *ResourceRequest) (*ResourceResponse, error)
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeTarget", Handler: computeTargetHandler},
		{MethodName: "ResourcePercentage", Handler: resourcePercentageHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dls/v1/calculator",
}

func computeTargetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TargetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).ComputeTarget(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ComputeTargetMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalculatorServer).ComputeTarget(ctx, req.(*TargetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func resourcePercentageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ResourceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).ResourcePercentage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResourcePercentageMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalculatorServer).ResourcePercentage(ctx, req.(*ResourceRequest))
	}
	return interceptor(ctx, in, info, handler)
}
