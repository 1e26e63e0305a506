package checker

import (
	"errors"
	"fmt"
)

// NoReleaseError indicates no release record matches the target version.
// Without a release coordinate to link against, an assertion must never be
// published, so the version is aborted with no events and no state update.
type NoReleaseError struct {
	AppID   string
	Version string
}

func (e *NoReleaseError) Error() string {
	return fmt.Sprintf("no release record found for %s version %s; cannot create an assertion without linking to a release", e.AppID, e.Version)
}

// IsNoRelease returns true if the error is a missing-release error.
// Uses errors.As to handle wrapped errors.
func IsNoRelease(err error) bool {
	var nr *NoReleaseError
	return errors.As(err, &nr)
}
