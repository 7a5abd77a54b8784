// Package config defines the YAML merge manifest: the destination path and
// the ordered list of firmware targets, with helpers to load, validate and
// save it.
//
// Offsets stay textual in the manifest (decimal or "0x"-prefixed hex); the
// merger's input layer parses them.
package config
