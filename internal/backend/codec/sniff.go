// Package codec is the byte-level backend adapter: it sniffs raw input
// into the byte representations, registers the decode converters that lift
// byte data into the raster representation, and provides the cheap native
// operations that work on undecoded bytes.
package codec

import (
	"bytes"
	"fmt"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// Sniff identifies the format of raw image bytes by magic number and
// returns the matching byte representation. Sniffing looks at file
// contents, never at names: the engine receives bare bytes.
func Sniff(b []byte) (engine.Representation, error) {
	switch {
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return backend.PNGBytes, nil
	case len(b) >= 3 && bytes.Equal(b[:3], []byte("\xff\xd8\xff")):
		return backend.JPEGBytes, nil
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return backend.GIFBytes, nil
	case len(b) >= 2 && bytes.Equal(b[:2], []byte("BM")):
		return backend.BMPBytes, nil
	case len(b) >= 4 && (bytes.Equal(b[:4], []byte("II*\x00")) || bytes.Equal(b[:4], []byte("MM\x00*"))):
		return backend.TIFFBytes, nil
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return backend.WebPBytes, nil
	default:
		return "", &engine.UnrecognizedFormatError{Detail: fmt.Sprintf("no known magic number in %d input bytes", len(b))}
	}
}

// Decode is the engine's decoding collaborator. It sniffs the format and
// returns the input wrapped as an owned byte-representation value. The
// bytes are copied so the Session never aliases a caller-held buffer.
func Decode(b []byte) (engine.Value, error) {
	rep, err := Sniff(b)
	if err != nil {
		return engine.Value{}, err
	}
	owned := make([]byte, len(b))
	copy(owned, b)
	return engine.Value{Rep: rep, Data: owned}, nil
}
