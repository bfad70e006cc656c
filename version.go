package fittrack

import (
	_ "embed"
)

// Version is the release of the tracker, read from the VERSION file.
//
//go:embed VERSION
var Version string
