// Values in this file are injected at build time with go's -ldflags option, e.g.
//   -X exusiai.dev/posecoach/internal/pkg/bininfo.Version=v1.2.0
// DO NOT EDIT THE VARIABLE NAMES UNLESS YOU KNOW WHAT YOU ARE DOING.

package bininfo

var (
	// Version is the SemVer version of the binary.
	Version = "v0.0.0"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"

	// BuildTime is the time at which the application was built.
	BuildTime = "1970-01-01T00:00:00Z"
)
