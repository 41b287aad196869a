package tso

import (
	"encoding/json"
	"testing"

	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Message
	}{
		{
			name: "message",
			raw:  `{"TSO MESSAGE":{"VERSION":"0100","DATA":"hello"}}`,
			want: PlainMessage{Ver: "0100", Text: "hello"},
		},
		{
			name: "prompt",
			raw:  `{"TSO PROMPT":{"VERSION":"0100","HIDDEN":"FALSE"}}`,
			want: PromptMessage{Ver: "0100"},
		},
		{
			name: "hidden prompt",
			raw:  `{"TSO PROMPT":{"VERSION":"0100","HIDDEN":"TRUE"}}`,
			want: PromptMessage{Ver: "0100", Hidden: true},
		},
		{
			name: "response echo",
			raw:  `{"TSO RESPONSE":{"VERSION":"0100","DATA":"TIME"}}`,
			want: ResponseEcho{Ver: "0100", Data: "TIME"},
		},
		{
			name: "empty message data",
			raw:  `{"TSO MESSAGE":{"VERSION":"0100","DATA":""}}`,
			want: PlainMessage{Ver: "0100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRejectsAmbiguousEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no known key", `{"TSO OTHER":{"VERSION":"0100"}}`},
		{"empty object", `{}`},
		{"two keys", `{"TSO MESSAGE":{"VERSION":"0100","DATA":"a"},"TSO PROMPT":{"VERSION":"0100"}}`},
		{"not an object", `["TSO MESSAGE"]`},
		{"malformed body", `{"TSO MESSAGE":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(json.RawMessage(tt.raw))
			assert.Nil(t, got)
			assert.ErrorIs(t, err, zosmf.ErrProtocol)
		})
	}
}

func TestClassifyAllReportsIndex(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"TSO MESSAGE":{"VERSION":"0100","DATA":"ok"}}`),
		json.RawMessage(`{}`),
	}

	msgs, err := ClassifyAll(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tsoData[1]")
	assert.Len(t, msgs, 1)
}

func TestTextJoinsPlainMessages(t *testing.T) {
	msgs := []Message{
		ResponseEcho{Ver: Version, Data: "TIME"},
		PlainMessage{Ver: Version, Text: "IKJ56650I TIME-10:15:02 AM"},
		PlainMessage{Ver: Version, Text: "READY"},
		PromptMessage{Ver: Version},
	}

	assert.Equal(t, "IKJ56650I TIME-10:15:02 AM\nREADY", Text(msgs))
	assert.Empty(t, Text(nil))
}

func TestSendBodyKeepsEmptyCommand(t *testing.T) {
	data, err := json.Marshal(sendBody(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"TSO RESPONSE":{"VERSION":"0100","DATA":""}}`, string(data))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "message", KindMessage.String())
	assert.Equal(t, "prompt", KindPrompt.String())
	assert.Equal(t, "response", KindResponse.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
