// Package ipc implements JSON-RPC daemon control over a Unix domain socket.
//
// The CLI uses it for all daemon interaction: status, job control, stats,
// and library listing. The socket lives next to the database in the data
// directory, so filesystem permissions gate access. DTOs are aliased from
// the api package so HTTP and IPC consumers see identical payloads.
package ipc
