package tso

import "encoding/json"

// Session is a live TSO address space. ServletKey is the only handle the
// server needs; the remaining fields are informational.
type Session struct {
	ServletKey string
	QueueID    string
	Version    string
	SessionID  string
	Reused     bool
	TimedOut   bool

	// Messages holds what the address space wrote while logging on.
	Messages []Message
}

// tsoResponse is the body shared by start, send, ping and stop.
type tsoResponse struct {
	ServletKey string            `json:"servletKey"`
	QueueID    string            `json:"queueID"`
	Ver        string            `json:"ver"`
	SessionID  string            `json:"sessionID"`
	Reused     bool              `json:"reused"`
	Timeout    bool              `json:"timeout"`
	TsoData    []json.RawMessage `json:"tsoData"`
	MsgData    []struct {
		MessageText string `json:"messageText"`
		MessageID   string `json:"messageId"`
	} `json:"msgData"`
}

func (r *tsoResponse) serverMessage() string {
	if len(r.MsgData) == 0 {
		return ""
	}
	return r.MsgData[0].MessageID + " " + r.MsgData[0].MessageText
}
