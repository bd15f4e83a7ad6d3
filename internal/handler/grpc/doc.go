// Package grpc exposes the sync engine over gRPC.
//
// The service is described by hand in [ServiceDesc] and carries the same
// JSON documents as the REST API: requests and responses are encoded by the
// "json" codec registered by this package, so callers select it with
// grpc.CallContentSubtype(CodecName). Authentication reads the bearer token
// from the "authorization" metadata key.
package grpc
