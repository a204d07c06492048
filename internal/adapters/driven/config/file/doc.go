// Package file provides file-backed driven adapters.
//
// ConfigStore keeps user settings in a TOML file, by default
// ~/.bmap/config.toml. Keys are addressed in dot notation
// ("locate.threshold.identity") and written back as nested tables.
package file
