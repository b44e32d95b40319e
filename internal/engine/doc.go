// Package engine implements the capability-routing core of image-router.
//
// Image backends differ in which file formats and operations they support.
// Rather than teaching every caller which backend can do what, the engine
// models the problem as a graph: each concrete encoding/backend pairing is a
// Representation (a node), each registered converter between two
// representations is a directed, costed edge, and each operation is a named
// capability that some representations support natively. When a caller asks
// a Session to perform an operation its current representation cannot do,
// the router finds the cheapest chain of conversions that reaches a
// representation which can, and the Session executes that chain lazily.
//
// # Lifecycle
//
// The Registry has two phases. During startup, backend packages register
// their operations and converters. The first call to Open (or an explicit
// Freeze) flips the registry into its read-only query phase; registration
// after that point fails with ErrFrozen. A frozen registry is safe for
// concurrent reads without locking discipline on the caller's side.
//
// # Sessions
//
// A Session owns exactly one backend value. Conversions advance the Session
// in place, each step producing a fresh owned value; a native operation
// either yields a new Session or a terminal result (such as bytes written to
// a sink). Sessions are not safe for concurrent Invoke calls - each Session
// has a single owner.
//
// # Errors
//
// Every failure surfaces as one of the types in errors.go. Configuration
// mistakes (duplicate operations, negative costs, self-loop converters) are
// reported at registration time. UnsupportedOperationError is an expected
// runtime condition, not a bug: it means no conversion path reaches any
// representation that supports the requested operation.
package engine
