package console

import (
	"context"
	"errors"
	"testing"

	"github.com/graceinfra/zosmf/internal/optional"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/graceinfra/zosmf/internal/zosmf/zosmftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LINE1\rLINE2\r\n", "LINE1\nLINE2\n"},
		{"A\r\nB\r\nC", "A\nB\nC\n"},
		{"already\n", "already\n"},
		{"", "\n"},
		{"\r\r", "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLineEndings(tt.in))
		})
	}
}

func TestIssue(t *testing.T) {
	tests := []struct {
		name     string
		params   IssueParams
		reply    map[string]any
		wantPath string
		wantBody string
		want     Response
	}{
		{
			name:     "processed response on default console",
			params:   IssueParams{Command: "D IPLINFO", ProcessResponses: true},
			reply:    map[string]any{"cmd-response": "LINE1\rLINE2\r\n", "cmd-response-key": "C1234"},
			wantPath: "/zosmf/restconsoles/consoles/defcn",
			wantBody: `{"cmd":"D IPLINFO"}`,
			want:     Response{Success: true, CommandResponse: optional.Some("LINE1\nLINE2\n"), LastResponseKey: "C1234"},
		},
		{
			name:     "raw response keeps carriage returns",
			params:   IssueParams{Command: "D T", ConsoleName: "MYCN"},
			reply:    map[string]any{"cmd-response": "A\rB"},
			wantPath: "/zosmf/restconsoles/consoles/MYCN",
			wantBody: `{"cmd":"D T"}`,
			want:     Response{Success: true, CommandResponse: optional.Some("A\rB")},
		},
		{
			name: "all optional fields",
			params: IssueParams{
				Command:          "D A,L",
				SolicitedKeyword: "IEE114I",
				SysplexSystem:    "SYS1",
				Async:            true,
			},
			reply:    map[string]any{"cmd-response-url": "https://zos.test/solmsgs/C9", "cmd-response-key": "C9", "sol-key-detected": true},
			wantPath: "/zosmf/restconsoles/consoles/defcn",
			wantBody: `{"cmd":"D A,L","sol-key":"IEE114I","sysplex-system":"SYS1","async":"Y"}`,
			want: Response{
				Success:         true,
				LastResponseKey: "C9",
				CmdResponseURL:  "https://zos.test/solmsgs/C9",
				KeywordDetected: true,
			},
		},
		{
			name:     "async without cmd-response stays absent when processed",
			params:   IssueParams{Command: "D A,L", Async: true, ProcessResponses: true},
			reply:    map[string]any{"cmd-response-key": "C10"},
			wantPath: "/zosmf/restconsoles/consoles/defcn",
			wantBody: `{"cmd":"D A,L","async":"Y"}`,
			want:     Response{Success: true, CommandResponse: optional.None[string](), LastResponseKey: "C10"},
		},
		{
			name:     "empty cmd-response is present and normalized",
			params:   IssueParams{Command: "D T", ProcessResponses: true},
			reply:    map[string]any{"cmd-response": ""},
			wantPath: "/zosmf/restconsoles/consoles/defcn",
			wantBody: `{"cmd":"D T"}`,
			want:     Response{Success: true, CommandResponse: optional.Some("\n")},
		},
		{
			name:     "keyword field present but false still counts",
			params:   IssueParams{Command: "D T", SolicitedKeyword: "IEE136I"},
			reply:    map[string]any{"cmd-response": "IEE136I", "sol-key-detected": false},
			wantPath: "/zosmf/restconsoles/consoles/defcn",
			wantBody: `{"cmd":"D T","sol-key":"IEE136I"}`,
			want:     Response{Success: true, CommandResponse: optional.Some("IEE136I"), KeywordDetected: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := zosmftest.Sequence(zosmftest.JSON(tt.reply))

			got, err := NewClient(exec).Issue(context.Background(), tt.params)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)

			req := exec.Requests()[0]
			assert.Equal(t, "PUT", req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, zosmf.ContentTypeJSON, req.ContentType)
			assert.JSONEq(t, tt.wantBody, string(req.Body))
		})
	}
}

func TestIssueErrorCarriesRawBody(t *testing.T) {
	raw := `{"reason":"Console MYCN is in use","return-code":8}`
	exec := zosmftest.Sequence(zosmftest.Status(400, raw))

	res, err := NewClient(exec).Issue(context.Background(), IssueParams{Command: "D T", ConsoleName: "MYCN"})

	assert.Nil(t, res)
	var te *zosmf.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 400, te.StatusCode)
	assert.Equal(t, raw, err.Error())
}

func TestIssueRequiresCommand(t *testing.T) {
	exec := zosmftest.Sequence()

	_, err := NewClient(exec).Issue(context.Background(), IssueParams{Command: " "})

	assert.ErrorIs(t, err, zosmf.ErrProtocol)
	assert.Zero(t, exec.Count())
}

func TestGetResponse(t *testing.T) {
	exec := zosmftest.Sequence(zosmftest.JSON(map[string]any{"cmd-response": "LATE\r\n"}))

	res, err := NewClient(exec).GetResponse(context.Background(), "", "C1234", true)

	require.NoError(t, err)
	assert.Equal(t, optional.Some("LATE\n"), res.CommandResponse)
	assert.Equal(t, "C1234", res.LastResponseKey)

	req := exec.Requests()[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/zosmf/restconsoles/consoles/defcn/solmsgs/C1234", req.Path)
}

func TestGetResponseRequiresKey(t *testing.T) {
	_, err := NewClient(zosmftest.Sequence()).GetResponse(context.Background(), "", "", false)
	assert.ErrorIs(t, err, zosmf.ErrProtocol)
}
