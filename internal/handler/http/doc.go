// Package http implements the HTTP transport of the sync engine.
//
// It exposes route wiring, request handlers and middleware for the REST API.
// Authentication, request tracing, access logging and response compression
// are handled here before requests are delegated to the service layer.
package http
