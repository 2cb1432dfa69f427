package validate

import (
	"regexp"
	"strconv"
	"strings"

	"northcheck/pkg/fault"
)

var sha256Pattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

const (
	// HashExample is shown under hash format errors.
	HashExample = "Example: nc hash abc123def456..."
	// SizeExample is shown when --hash is used without --size.
	SizeExample = "Example: nc file dummy --hash abc123... --size 1024 --name example.exe"
)

// Hash reports whether s is a SHA-256 digest: exactly 64 hex characters.
func Hash(s string) bool {
	return sha256Pattern.MatchString(s)
}

// CheckHash returns a Validation failure if s is not a SHA-256 digest.
func CheckHash(s string) error {
	if !Hash(s) {
		return fault.Validationf("Invalid SHA256 hash format. Hash must be 64 hexadecimal characters.")
	}
	return nil
}

// Size parses a base-10, non-negative byte count.
func Size(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fault.Validationf("Size must be a positive number")
	}
	return n, nil
}

// RequiredSize parses the size for a manually supplied hash, where the
// option is mandatory. A missing value is reported separately from a
// malformed one.
func RequiredSize(s string, present bool) (int64, error) {
	if !present || s == "" {
		return 0, fault.Validationf("--size option is required when using --hash").WithHint(SizeExample)
	}
	return Size(s)
}

// OptionalSize parses the size when given and defaults to 0 otherwise.
func OptionalSize(s string, present bool) (int64, error) {
	if !present {
		return 0, nil
	}
	return Size(s)
}
