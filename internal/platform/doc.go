// Package platform provides the small set of filesystem operations whose
// behavior differs across operating systems: permission changes and write
// probes. On Unix it applies chmod directly. On Windows, which has no
// Unix-style permission bits, permission changes are a no-op.
package platform
