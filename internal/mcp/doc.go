// Package mcp implements the resource host that serves the EVM reference
// documents to agents: an in-process registry of URI-addressed read handlers
// and its HTTP transport (JSON-RPC resources/list and resources/read, plus a
// small REST view of the chain registry).
package mcp
