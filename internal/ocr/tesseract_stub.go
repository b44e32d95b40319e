//go:build !cgo || !linux

package ocr

import "github.com/ironsheep/image-router/internal/engine"

// Available reports whether this build carries the Tesseract bindings.
func Available() bool { return false }

// Register is a no-op without native Tesseract support; extract-text then
// resolves as unsupported.
func Register(reg *engine.Registry) error { return nil }
