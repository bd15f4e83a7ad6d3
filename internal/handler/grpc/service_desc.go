// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "syncengine.v1.SyncEngine"

// Full method names, as seen by interceptors and passed to ClientConn.Invoke.
const (
	ReconcileMethod       = "/" + ServiceName + "/Reconcile"
	GetSessionMethod      = "/" + ServiceName + "/GetSession"
	ListSessionsMethod    = "/" + ServiceName + "/ListSessions"
	GetConflictDiffMethod = "/" + ServiceName + "/GetConflictDiff"
	ResolveConflictMethod = "/" + ServiceName + "/ResolveConflict"
	GetVersionMethod      = "/" + ServiceName + "/GetVersion"
)

// SyncEngineServer is the server API of the sync engine service.
type SyncEngineServer interface {
	Reconcile(ctx context.Context, req *models.ReconcileRequest) (*models.ReconcileResponse, error)
	GetSession(ctx context.Context, req *SessionRequest) (*models.SessionDetails, error)
	ListSessions(ctx context.Context, req *ListSessionsRequest) (*models.SessionList, error)
	GetConflictDiff(ctx context.Context, req *ConflictDiffRequest) (*models.ConflictDiff, error)
	ResolveConflict(ctx context.Context, req *ResolveConflictRequest) (*models.ResolveResponse, error)
	GetVersion(ctx context.Context, req *VersionRequest) (*VersionResponse, error)
}

// ServiceDesc describes the sync engine service for [grpc.ServiceRegistrar].
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Reconcile", SyncEngineServer.Reconcile),
		unary("GetSession", SyncEngineServer.GetSession),
		unary("ListSessions", SyncEngineServer.ListSessions),
		unary("GetConflictDiff", SyncEngineServer.GetConflictDiff),
		unary("ResolveConflict", SyncEngineServer.ResolveConflict),
		unary("GetVersion", SyncEngineServer.GetVersion),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "syncengine/v1/sync_engine.json",
}

// unary builds the method descriptor the protobuf generator would emit for
// a unary method: decode the request, then run call through the interceptor.
func unary[Req, Resp any](name string, call func(SyncEngineServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, status.Error(codes.InvalidArgument, app.MsgInvalidDataProvided)
			}

			server := srv.(SyncEngineServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
