package jobs

import (
	"fmt"
	"slices"
)

// JobStatus is the z/OSMF job lifecycle phase reported in the "status" field.
type JobStatus string

const (
	StatusInput  JobStatus = "INPUT"
	StatusActive JobStatus = "ACTIVE"
	StatusOutput JobStatus = "OUTPUT"
)

// statusOrder is the logical progression of a job. A job never moves
// backwards through it.
var statusOrder = []JobStatus{StatusInput, StatusActive, StatusOutput}

// ParseJobStatus matches s case-sensitively, as z/OSMF always reports upper case.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !slices.Contains(statusOrder, status) {
		return "", fmt.Errorf("unknown job status %q; expected one of %v", s, statusOrder)
	}
	return status, nil
}

// Order returns the position of s in the lifecycle, or -1 if s is unknown.
func (s JobStatus) Order() int {
	return slices.Index(statusOrder, s)
}

func (s JobStatus) Valid() bool {
	return s.Order() >= 0
}

func (s JobStatus) String() string {
	return string(s)
}

// Reachable reports whether a job currently in status current can still be
// observed in target.
func Reachable(current, target JobStatus) bool {
	return target.Order() >= current.Order()
}
