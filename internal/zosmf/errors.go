package zosmf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification via errors.Is().
var (
	ErrTransport         = errors.New("zosmf transport error")
	ErrProtocol          = errors.New("zosmf protocol error")
	ErrUnreachableStatus = errors.New("job status unreachable")
	ErrTimeout           = errors.New("attempts exhausted")
	ErrSessionTimedOut   = errors.New("TSO session timed out")
)

// TransportError is a network failure (StatusCode 0) or a response whose
// status fell outside 100-299. Body holds the raw response payload.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Cause)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("%s %s returned HTTP %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTransport, e.Cause}
	}
	return []error{ErrTransport}
}

// ProtocolError reports a payload that is malformed or missing a field the
// protocol requires.
type ProtocolError struct {
	Op      string
	Message string
	Payload string
	Cause   error
}

func NewProtocolError(op, message string) *ProtocolError {
	return &ProtocolError{Op: op, Message: message}
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProtocolError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrProtocol, e.Cause}
	}
	return []error{ErrProtocol}
}

// UnreachableStatusError is returned when a job has already moved past the
// status a caller asked to wait for.
type UnreachableStatusError struct {
	JobName string
	JobID   string
	Target  string
	Current string
}

func (e *UnreachableStatusError) Error() string {
	return fmt.Sprintf("job %s(%s) is already %s; status %s can no longer be reached", e.JobName, e.JobID, e.Current, e.Target)
}

func (e *UnreachableStatusError) Unwrap() error {
	return ErrUnreachableStatus
}

// TimeoutError is returned when a polling loop used its whole attempt budget.
// Subject names what was polled, e.g. "job HELLO(JOB00042)".
type TimeoutError struct {
	Subject    string
	Target     string
	Attempts   int
	LastStatus string
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s did not reach %s after %d attempts", e.Subject, e.Target, e.Attempts)
	if e.LastStatus != "" {
		msg += fmt.Sprintf(" (last status: %s)", e.LastStatus)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}
