// Package version carries build metadata for aio-packager.
//
// Version, Commit and BuildTime default to local-build placeholders and are
// replaced through Go ldflags by release builds. Short and Full format them
// for CLI output and logs.
package version
