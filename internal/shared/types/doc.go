// Package types provides shared data structures for the Mirage backend.
//
// This package defines the contracts used across backend components:
//
//   - Service, Tool, Parameter: service provider definitions
//   - Context: execution context for tool calls
//   - Result: standard operation result
//   - AppAction: action-bus message shape
//   - ShellRequest, WSMessage: transport payloads
package types
