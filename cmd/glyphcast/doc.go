// Package main hosts the glyphcast CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into encode runs,
// timed playback sessions, cast inspection, and catalog queries. It owns
// configuration resolution, flag-over-config layering, and logger setup so
// subcommands stay thin over the internal packages.
package main
