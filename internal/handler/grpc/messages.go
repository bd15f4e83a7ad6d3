package grpc

import "github.com/MKhiriev/go-sync-keeper/models"

// Path parameters of the REST API travel in the message body over gRPC.

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type ListSessionsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ConflictDiffRequest struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	models.ConflictDiffRequest
}

type ResolveConflictRequest struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	models.ResolveRequest
}

type VersionRequest struct{}

type VersionResponse struct {
	Version string `json:"version"`
}
