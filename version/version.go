package version

// Version is the release version of the arena engine, overridden at
// build time with -ldflags.
var Version = "0.1.0"
