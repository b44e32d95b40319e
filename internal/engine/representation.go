package engine

// Representation names a concrete encoding/backend pairing for an image
// value, such as "png-bytes" (undecoded PNG data) or "raster" (an in-memory
// image.Image). Representations are compared by identity and act as node
// identities in the capability graph. The full set is fixed once
// registration completes.
type Representation string

// Value is an image value tagged with the Representation that describes it.
//
// The Data field holds whatever the owning backend works with: []byte for
// the byte representations, image.Image for the raster representation, and
// so on. A Value is owned by exactly one Session at a time; converters must
// return a fresh Value rather than mutating their input, since backend
// values may alias internal buffers that are unsafe to share.
type Value struct {
	Rep  Representation
	Data any
}

// OperationFunc performs a native operation on a value of the
// representation it was registered for. It returns either a Value (the
// operation produced a further image) or a terminal result such as a
// written-byte count. Argument validation is the operation's own
// responsibility; invalid arguments are reported as *BadArgumentError
// before any backend work happens.
type OperationFunc func(v Value, args ...any) (any, error)

// ConverterFunc transforms a value from the source representation of its
// converter edge into a fresh value of the target representation.
type ConverterFunc func(v Value) (Value, error)
