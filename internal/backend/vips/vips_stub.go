//go:build !vips

// Package vips is the optional libvips backend adapter. This is the stub
// variant for builds without the "vips" tag: it registers nothing, so
// operations only libvips provides (webp export) resolve to
// UnsupportedOperationError - an expected condition, not a failure.
package vips

import "github.com/ironsheep/image-router/internal/engine"

// Available reports whether this build carries the libvips backend.
func Available() bool { return false }

// Register is a no-op without the vips build tag.
func Register(reg *engine.Registry) error { return nil }
