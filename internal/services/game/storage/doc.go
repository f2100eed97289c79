// Package storage defines persistence contracts for the game service.
//
// Live session state is volatile and owned by the registry. What persists is
// the event journal: an append-only record of every snapshot the core
// published. Implementations (e.g., SQLite) live in subpackages.
package storage
