package version

// Version is the current version of the optchain tool.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-optchain/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// CacheLayoutVersion is the version of the on-disk cache layout written to the dump root manifest.
// Bump the minor version whenever the file naming or column set changes.
const CacheLayoutVersion = "1.0.0"

// GetVersion returns the current version of the tool.
func GetVersion() string {
	return Version
}
