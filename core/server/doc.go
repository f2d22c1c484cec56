// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key that protects the
// loan endpoints, and whether the HTTP API runs at all. The start command
// reads it to build the Fiber application.
package server
