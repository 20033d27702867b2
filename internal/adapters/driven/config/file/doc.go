// Package file provides the file-based implementation of the
// driven.ConfigStore port: TOML-based configuration storage in the
// reelnotes config directory.
package file
