package errors

import (
	"strings"
	"unicode"
)

// maxModIDLength bounds identifiers read from manifests.
const maxModIDLength = 256

// ValidateModID validates a mod identifier read from a manifest.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Kind-specific rules (numeric workshop ids, path shapes) are checked by
// [ValidateWorkshopID] and by the mod set normalizer.
func ValidateModID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidMod, "mod identifier cannot be empty")
	}

	if len(id) > maxModIDLength {
		return New(ErrCodeInvalidMod, "mod identifier too long (max %d characters)", maxModIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidMod, "mod identifier contains invalid control characters")
		}
	}

	return nil
}

// ValidateWorkshopID validates a workshop item identifier.
// Workshop ids are decimal numbers assigned by the hosting service.
func ValidateWorkshopID(id string) error {
	if err := ValidateModID(id); err != nil {
		return err
	}

	for _, r := range strings.TrimSpace(id) {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidMod, "workshop id must be numeric: %q", id)
		}
	}

	return nil
}
