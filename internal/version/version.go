package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/exepack/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/exepack/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/exepack/internal/version.Date={{.Date}}
)

// String returns a one-line description of the build
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
