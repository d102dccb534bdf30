// Package manifest handles parsing and validation of stride.yaml project
// manifests. A manifest describes one buildable application set: where the
// application sources live, which linker script they share, the address
// layout they are staggered across, and the external tool that builds them.
// JSON Schema validation is provided against the embedded schema.
package manifest
