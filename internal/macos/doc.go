// Package macos binds the handful of CoreFoundation, CoreGraphics,
// ApplicationServices and IOKit symbols overmouse needs, loaded at runtime
// through purego so the build never needs cgo.
package macos
