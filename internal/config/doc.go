// Package config manages user-level settings stored at ~/.stride/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the cargo binary override used when invoking builds. Environment variables
// with the STRIDE_ prefix take precedence over file values.
package config
