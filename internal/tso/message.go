package tso

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/graceinfra/zosmf/internal/zosmf"
)

const (
	keyMessage  = "TSO MESSAGE"
	keyPrompt   = "TSO PROMPT"
	keyResponse = "TSO RESPONSE"

	// Version is the TSO message format version z/OSMF speaks.
	Version = "0100"
)

type Kind int

const (
	KindMessage Kind = iota
	KindPrompt
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindPrompt:
		return "prompt"
	case KindResponse:
		return "response"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Message is one classified entry of a tsoData array. The concrete type is
// PlainMessage, PromptMessage or ResponseEcho.
type Message interface {
	Kind() Kind
	Version() string
}

// PlainMessage is a line of output written by the TSO address space.
type PlainMessage struct {
	Ver  string
	Text string
}

func (m PlainMessage) Kind() Kind      { return KindMessage }
func (m PlainMessage) Version() string { return m.Ver }

// PromptMessage means the address space is waiting for input.
type PromptMessage struct {
	Ver    string
	Hidden bool
}

func (m PromptMessage) Kind() Kind      { return KindPrompt }
func (m PromptMessage) Version() string { return m.Ver }

// ResponseEcho is the server echoing input back.
type ResponseEcho struct {
	Ver  string
	Data string
}

func (m ResponseEcho) Kind() Kind      { return KindResponse }
func (m ResponseEcho) Version() string { return m.Ver }

type wireBody struct {
	Version string `json:"VERSION"`
	Data    string `json:"DATA,omitempty"`
	Hidden  string `json:"HIDDEN,omitempty"`
}

// Classify decodes one raw tsoData entry. Exactly one of the three known keys
// must be present; anything else is a *zosmf.ProtocolError.
func Classify(raw json.RawMessage) (Message, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, &zosmf.ProtocolError{Op: "classify TSO message", Message: "entry is not a JSON object", Payload: string(raw), Cause: err}
	}

	var found []string
	for _, key := range []string{keyMessage, keyPrompt, keyResponse} {
		if _, ok := entry[key]; ok {
			found = append(found, key)
		}
	}
	if len(found) != 1 {
		return nil, &zosmf.ProtocolError{
			Op:      "classify TSO message",
			Message: fmt.Sprintf("expected exactly one of %q, %q, %q; found %d", keyMessage, keyPrompt, keyResponse, len(found)),
			Payload: string(raw),
		}
	}

	key := found[0]
	var body wireBody
	if err := json.Unmarshal(entry[key], &body); err != nil {
		return nil, &zosmf.ProtocolError{Op: "classify TSO message", Message: fmt.Sprintf("malformed %q body", key), Payload: string(raw), Cause: err}
	}

	switch key {
	case keyMessage:
		return PlainMessage{Ver: body.Version, Text: body.Data}, nil
	case keyPrompt:
		return PromptMessage{Ver: body.Version, Hidden: strings.EqualFold(body.Hidden, "true")}, nil
	default:
		return ResponseEcho{Ver: body.Version, Data: body.Data}, nil
	}
}

// ClassifyAll classifies every entry, stopping at the first malformed one.
func ClassifyAll(raw []json.RawMessage) ([]Message, error) {
	msgs := make([]Message, 0, len(raw))
	for i, r := range raw {
		m, err := Classify(r)
		if err != nil {
			return msgs, fmt.Errorf("tsoData[%d]: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Text joins the text of every PlainMessage with newlines.
func Text(msgs []Message) string {
	var lines []string
	for _, m := range msgs {
		if pm, ok := m.(PlainMessage); ok {
			lines = append(lines, pm.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func hasPrompt(msgs []Message) bool {
	for _, m := range msgs {
		if m.Kind() == KindPrompt {
			return true
		}
	}
	return false
}

type responseBody struct {
	Version string `json:"VERSION"`
	Data    string `json:"DATA"`
}

// sendBody builds {"TSO RESPONSE":{"VERSION":"0100","DATA":"<command>"}}.
func sendBody(command string) map[string]responseBody {
	return map[string]responseBody{keyResponse: {Version: Version, Data: command}}
}
