package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"

	_ "image/gif"  // register GIF decoder for image.Decode/DecodeConfig
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/engine"
)

// decodeCost is the default price of fully decoding a byte representation
// into an in-memory raster image. Optional accelerated backends undercut it.
const decodeCost = 100

// byteRepOrder fixes the registration order of the byte representations, so
// converter sequence numbers (and the tie-breaks built on them) come out the
// same in every process.
var byteRepOrder = []engine.Representation{
	backend.PNGBytes,
	backend.JPEGBytes,
	backend.GIFBytes,
	backend.BMPBytes,
	backend.TIFFBytes,
	backend.WebPBytes,
}

// byteReps maps each byte representation to its short format name.
var byteReps = map[engine.Representation]string{
	backend.PNGBytes:  "png",
	backend.JPEGBytes: "jpeg",
	backend.GIFBytes:  "gif",
	backend.BMPBytes:  "bmp",
	backend.TIFFBytes: "tiff",
	backend.WebPBytes: "webp",
}

// FormatOf returns the short format name for a byte representation, or ""
// if rep is not one.
func FormatOf(rep engine.Representation) string {
	return byteReps[rep]
}

// Register records the codec capabilities into reg: per-format decode
// converters into the raster representation and the byte-level native
// operations ("dimensions" via a header-only decode, "write" to copy the
// encoded bytes to a sink).
func Register(reg *engine.Registry) error {
	for _, rep := range byteRepOrder {
		format := byteReps[rep]
		if err := reg.RegisterConverter(rep, backend.Raster, decodeCost, decodeConverter(format)); err != nil {
			return err
		}
		if err := reg.RegisterOperation(rep, "dimensions", "", dimensionsOp); err != nil {
			return err
		}
		if err := reg.RegisterOperation(rep, "write", "sink io.Writer", writeOp(format)); err != nil {
			return err
		}
	}
	return nil
}

// decodeConverter lifts byte data into the raster representation. The
// format sniffed at open time must match what the decoder finds; a
// mismatch means corrupt input, reported as a conversion failure.
func decodeConverter(format string) engine.ConverterFunc {
	return func(v engine.Value) (engine.Value, error) {
		data, ok := v.Data.([]byte)
		if !ok {
			return engine.Value{}, fmt.Errorf("value is not byte data")
		}
		img, decoded, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return engine.Value{}, fmt.Errorf("decoding %s data: %w", format, err)
		}
		if decoded != format {
			return engine.Value{}, fmt.Errorf("data sniffed as %s but decoded as %s", format, decoded)
		}
		return engine.Value{Rep: backend.Raster, Data: img}, nil
	}
}

// dimensionsOp reads width and height from the image header without a full
// pixel decode. This keeps "dimensions" a zero-conversion operation on
// every byte representation.
func dimensionsOp(v engine.Value, args ...any) (any, error) {
	data, ok := v.Data.([]byte)
	if !ok {
		return nil, fmt.Errorf("value is not byte data")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	return &backend.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// writeOp copies the already-encoded bytes to the caller's sink. Terminal:
// no re-encode happens, so writing a PNG session to a sink is free of
// pixel work.
func writeOp(format string) engine.OperationFunc {
	return func(v engine.Value, args ...any) (any, error) {
		w, err := backend.WriterArg("write", args, 0)
		if err != nil {
			return nil, err
		}
		data, ok := v.Data.([]byte)
		if !ok {
			return nil, fmt.Errorf("value is not byte data")
		}
		n, err := io.Copy(w, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("writing %s data: %w", format, err)
		}
		return &backend.SaveResult{Format: format, Bytes: n}, nil
	}
}
