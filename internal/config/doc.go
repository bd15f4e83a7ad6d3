// Package config loads, merges and validates the configuration of the sync
// engine server and its reference client.
//
// Sources, in order of precedence (the first non-zero value wins):
//  1. Environment variables, optionally seeded from a .env file
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the client.
package config
