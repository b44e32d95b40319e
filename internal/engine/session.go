package engine

import (
	"errors"
	"fmt"
	"sync"
)

// Session binds one owned backend value to its current representation and
// executes operations against it, routing through converters as needed.
//
// A Session has a single owner: passing the same Session to two concurrent
// Invoke calls is not supported. Conversions advance the Session in place,
// so after a failed Invoke the Session sits at the last representation it
// successfully reached.
type Session struct {
	reg *Registry
	val Value
}

// NewSession wraps an already-decoded value in a Session bound to reg.
func NewSession(reg *Registry, v Value) *Session {
	return &Session{reg: reg, val: v}
}

// Representation returns the Session's current representation tag.
func (s *Session) Representation() Representation {
	return s.val.Rep
}

// Value returns the Session's current tagged value.
func (s *Session) Value() Value {
	return s.val
}

// Invoke performs the named operation, converting representations first if
// the current one does not support it natively.
//
// The result is either a *Session wrapping the operation's output value or
// a terminal result (whatever the operation returned). Failures surface as
// *UnsupportedOperationError (no route), *ConversionError (a converter step
// failed; the Session keeps the conversions that succeeded),
// *BadArgumentError, or *OperationError.
func (s *Session) Invoke(name string, args ...any) (any, error) {
	entry, ok := s.reg.LookupOperation(s.val.Rep, name)
	if !ok {
		path, err := s.reg.Resolve(s.val.Rep, name)
		if err != nil {
			return nil, err
		}
		for _, step := range path.Steps {
			converted, err := step.Fn(s.val)
			if err != nil {
				return nil, wrapConversion(step, err)
			}
			if converted.Rep != step.Target {
				return nil, &ConversionError{
					Source: step.Source,
					Target: step.Target,
					Err:    fmt.Errorf("converter produced representation %q", converted.Rep),
				}
			}
			s.val = converted
		}
		entry, ok = s.reg.LookupOperation(s.val.Rep, name)
		if !ok {
			// A resolved path always ends at a supporting node.
			return nil, &UnsupportedOperationError{Start: s.val.Rep, Name: name}
		}
	}

	result, err := entry.Fn(s.val, args...)
	if err != nil {
		return nil, wrapOperation(entry, err)
	}
	if v, isValue := result.(Value); isValue {
		return &Session{reg: s.reg, val: v}, nil
	}
	return result, nil
}

func wrapConversion(step *ConverterEntry, err error) error {
	var conv *ConversionError
	if errors.As(err, &conv) {
		return err
	}
	return &ConversionError{Source: step.Source, Target: step.Target, Err: err}
}

func wrapOperation(entry *OperationEntry, err error) error {
	var (
		opErr  *OperationError
		badArg *BadArgumentError
	)
	if errors.As(err, &opErr) || errors.As(err, &badArg) {
		return err
	}
	return &OperationError{Rep: entry.Rep, Name: entry.Name, Err: err}
}

// DecodeFunc is the decoding collaborator: it sniffs raw bytes and returns
// an initial tagged value, or fails with *UnrecognizedFormatError.
type DecodeFunc func(b []byte) (Value, error)

var (
	decoderMu sync.RWMutex
	decoder   DecodeFunc
)

// SetDecoder installs the process decoding collaborator used by Open.
// Called once at startup, alongside backend registration.
func SetDecoder(fn DecodeFunc) {
	decoderMu.Lock()
	decoder = fn
	decoderMu.Unlock()
}

// Open decodes raw input bytes and returns a Session bound to the default
// registry. The first Open freezes the default registry, ending the
// registration phase.
func Open(b []byte) (*Session, error) {
	Default.Freeze()

	decoderMu.RLock()
	fn := decoder
	decoderMu.RUnlock()
	if fn == nil {
		return nil, &UnrecognizedFormatError{Detail: "no decoder installed"}
	}

	v, err := fn(b)
	if err != nil {
		return nil, err
	}
	return NewSession(Default, v), nil
}
