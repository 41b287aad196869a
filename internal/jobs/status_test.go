package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    JobStatus
		shouldError bool
	}{
		{name: "Input", input: "INPUT", expected: StatusInput},
		{name: "Active", input: "ACTIVE", expected: StatusActive},
		{name: "Output", input: "OUTPUT", expected: StatusOutput},
		{name: "Lower case is rejected", input: "output", shouldError: true},
		{name: "Empty", input: "", shouldError: true},
		{name: "Unknown", input: "ABEND", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJobStatus(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStatusOrder(t *testing.T) {
	assert.Equal(t, 0, StatusInput.Order())
	assert.Equal(t, 1, StatusActive.Order())
	assert.Equal(t, 2, StatusOutput.Order())
	assert.Equal(t, -1, JobStatus("HELD").Order())
	assert.False(t, JobStatus("HELD").Valid())
}

func TestReachable(t *testing.T) {
	all := []JobStatus{StatusInput, StatusActive, StatusOutput}
	for _, current := range all {
		for _, target := range all {
			expected := target.Order() >= current.Order()
			assert.Equal(t, expected, Reachable(current, target), "current=%s target=%s", current, target)
		}
	}
}
