// Package builder invokes the external build tool for one application at a
// time. The New function selects the implementation from the manifest's
// build.tool field. A non-zero exit from the tool is reported in the Result,
// not as an error: the caller decides what a failed build means.
package builder
