// Package scaffold generates new Stride projects and application sources from
// embedded templates. It powers the "stride init" and "stride create app"
// commands, producing a manifest, a linker script carrying the configured
// base address, and ready-to-build application stubs.
package scaffold
