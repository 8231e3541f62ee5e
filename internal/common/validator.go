package common

import (
	"errors"
	"strings"
)

const maxPathParamLength = 4096

// ValidateResourceID checks if the given resource endpoint ID is usable.
// It must be non-empty, bounded, and must not contain path separators or control characters.
func ValidateResourceID(id string) error {
	if id == "" {
		return errors.New("invalid resource id, empty")
	}

	if len(id) > maxPathParamLength {
		return errors.New("invalid resource id, too long")
	}

	if strings.ContainsAny(id, "/\\") {
		return errors.New("invalid resource id, contains a path separator")
	}

	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return errors.New("invalid resource id, contains a control character")
		}
	}

	return nil
}

// ValidateExtraSegment checks if the given catalog extra segment is bounded and not empty.
func ValidateExtraSegment(segment string) error {
	if segment == "" {
		return errors.New("invalid extra segment, empty")
	}

	if len(segment) > maxPathParamLength {
		return errors.New("invalid extra segment, too long")
	}

	return nil
}
