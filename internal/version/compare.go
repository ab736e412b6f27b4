package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckLayoutCompatibility checks if a cache written with storedLayout can be
// read and extended by a tool whose layout version is currentLayout.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.0.0 is compatible with 1.0.3)
//
// Examples:
//   - Tool 1.0.0, Cache 1.0.0 -> OK (exact match)
//   - Tool 1.0.1, Cache 1.0.0 -> OK (patch differs)
//   - Tool 1.1.0, Cache 1.0.0 -> ERROR (minor differs)
//   - Tool 2.0.0, Cache 1.0.0 -> ERROR (major differs)
func CheckLayoutCompatibility(currentLayout, storedLayout string) error {
	currentLayout = strings.TrimPrefix(currentLayout, "v")
	storedLayout = strings.TrimPrefix(storedLayout, "v")

	if currentLayout == "main" || storedLayout == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentLayout)
	if err != nil {
		return fmt.Errorf("invalid layout version '%s': %w", currentLayout, err)
	}

	stored, err := semver.NewVersion(storedLayout)
	if err != nil {
		return fmt.Errorf("invalid cache layout version '%s': %w", storedLayout, err)
	}

	if current.Major() != stored.Major() {
		return fmt.Errorf("major version mismatch: tool writes layout %d.x.x but cache uses %d.x.x",
			current.Major(), stored.Major())
	}

	if current.Minor() != stored.Minor() {
		return fmt.Errorf("minor version mismatch: tool writes layout %d.%d.x but cache uses %d.%d.x",
			current.Major(), current.Minor(),
			stored.Major(), stored.Minor())
	}

	return nil
}
