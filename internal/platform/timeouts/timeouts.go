// Package timeouts defines the timeout constants shared by the game service
// and its clients.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the game service.
const GRPCDial = 2 * time.Second

// HealthProbe bounds a single health check call.
const HealthProbe = time.Second

// HealthBackoffMax caps the delay between health checks.
const HealthBackoffMax = time.Second

// Shutdown limits how long the gRPC server waits for in-flight calls and
// open Watch streams during graceful shutdown.
const Shutdown = 5 * time.Second
