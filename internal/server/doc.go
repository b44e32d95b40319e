// Package server implements the MCP (Model Context Protocol) server for the
// image routing pipeline.
//
// The server speaks JSON-RPC 2.0 over stdin/stdout. Every tool is expressed
// as engine invocations: a file is opened into a Session, operations are
// invoked by name, and the engine routes through whatever representation
// conversions the current build's backends make available. The server never
// calls a backend directly, so tool behavior automatically reflects the
// registered capability graph (for example, webp export works exactly when
// the vips backend is compiled in).
//
// # Request Flow
//
//  1. Client sends a JSON-RPC request on stdin (one per line)
//  2. Server dispatches initialize/tools list/tools call
//  3. Tool handlers open sessions via the path-keyed session cache
//  4. Responses are written to stdout; logs go to stderr
//
// # Session Cache
//
// Opening a file costs a read and a format sniff; the cache keeps one
// Session per path so repeated tools on the same file skip that work. The
// server processes requests sequentially, which satisfies the engine's
// single-owner Session contract.
package server
