// Package rpc serves the dls.v1.Calculator gRPC service.
//
// Requests and responses travel as JSON under the codec registered by
// pkg/dlsrpc. Calculation failures map to codes.InvalidArgument, and
// out-of-range lookups to codes.OutOfRange; the status message begins with
// the dls error kind. Authentication is enforced by the server interceptor
// before a method is reached.
package rpc
