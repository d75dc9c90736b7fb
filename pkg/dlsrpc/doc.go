// Package dlsrpc defines the dls.v1.Calculator gRPC service shared by
// dlc-server and the dlc command.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype, so neither side needs generated protobuf stubs.
// The wire form of a match is dls.Snapshot.
//
// Methods:
//
//	/dls.v1.Calculator/ComputeTarget       TargetRequest   -> TargetResponse
//	/dls.v1.Calculator/ResourcePercentage  ResourceRequest -> ResourceResponse
package dlsrpc
