package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	jobNameChars = regexp.MustCompile(`^[A-Z0-9#$@]+$`)
	jobIDPattern = regexp.MustCompile(`^(JOB|STC|TSU|J|S|T)[0-9]+$`)
)

// ValidateJobName checks a JCL job name: 1-8 characters from A-Z, 0-9, #, $,
// @ and not starting with a digit. Lowercase is accepted.
func ValidateJobName(name string) error {
	if name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if len(name) > 8 {
		return fmt.Errorf("job name %q exceeds 8 characters", name)
	}

	upper := strings.ToUpper(name)
	if upper[0] >= '0' && upper[0] <= '9' {
		return fmt.Errorf("job name %q: first character cannot be numeric", name)
	}
	if !jobNameChars.MatchString(upper) {
		return fmt.Errorf("job name %q contains invalid characters; only A-Z, 0-9, $, #, @ allowed", name)
	}
	return nil
}

// ValidateJobID checks a JES job identifier such as JOB00042, J0012345 or
// STC01234. IDs are always eight characters.
func ValidateJobID(id string) error {
	if id == "" {
		return fmt.Errorf("job ID cannot be empty")
	}
	upper := strings.ToUpper(id)
	if len(upper) != 8 || !jobIDPattern.MatchString(upper) {
		return fmt.Errorf("job ID %q is not a valid JES identifier (e.g. JOB00042)", id)
	}
	return nil
}
