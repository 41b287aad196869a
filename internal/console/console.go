// Package console issues MVS console commands through the z/OSMF REST
// console services.
package console

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/graceinfra/zosmf/internal/optional"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	consolesPath = "/zosmf/restconsoles/consoles"

	// DefaultConsole is the console z/OSMF uses when none is named.
	DefaultConsole = "defcn"
)

// IssueParams describes one console command.
type IssueParams struct {
	ConsoleName      string
	Command          string
	SolicitedKeyword string
	SysplexSystem    string
	Async            bool

	// ProcessResponses unifies line endings in the returned text.
	ProcessResponses bool
}

// Response is the outcome of an Issue or GetResponse call. CommandResponse is
// None when z/OSMF returned no cmd-response, as for async commands.
type Response struct {
	Success         bool                   `json:"success"`
	CommandResponse optional.Value[string] `json:"commandResponse"`
	LastResponseKey string                 `json:"lastResponseKey,omitempty"`
	CmdResponseURL  string                 `json:"cmdResponseUrl,omitempty"`
	KeywordDetected bool                   `json:"keywordDetected"`
}

type issueBody struct {
	Cmd           string `json:"cmd"`
	SolKey        string `json:"sol-key,omitempty"`
	SysplexSystem string `json:"sysplex-system,omitempty"`
	Async         string `json:"async,omitempty"`
}

type issueReply struct {
	CmdResponse    optional.Value[string] `json:"cmd-response"`
	CmdResponseURL string                 `json:"cmd-response-url"`
	CmdResponseKey string                 `json:"cmd-response-key"`

	// Any non-null value means the solicited keyword was seen.
	SolKeyDetected any `json:"sol-key-detected"`
}

type Client struct {
	exec   zosmf.Executor
	logger zerolog.Logger
}

func NewClient(exec zosmf.Executor) *Client {
	return &Client{
		exec:   exec,
		logger: log.With().Str("component", "console").Logger(),
	}
}

func (c *Client) WithLogger(l zerolog.Logger) *Client {
	cp := *c
	cp.logger = l
	return &cp
}

func consolePath(name string) string {
	if strings.TrimSpace(name) == "" {
		name = DefaultConsole
	}
	return consolesPath + "/" + url.PathEscape(name)
}

// Issue sends params.Command to the console. A non-2xx status is returned as
// a *zosmf.TransportError whose message is the raw response body.
func (c *Client) Issue(ctx context.Context, params IssueParams) (*Response, error) {
	if strings.TrimSpace(params.Command) == "" {
		return nil, zosmf.NewProtocolError("console issue", "command is required")
	}

	body := issueBody{
		Cmd:           params.Command,
		SolKey:        params.SolicitedKeyword,
		SysplexSystem: params.SysplexSystem,
	}
	if params.Async {
		body.Async = "Y"
	}

	req, err := zosmf.NewJSONRequest(http.MethodPut, consolePath(params.ConsoleName), body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("command", params.Command).Str("console", params.ConsoleName).Msg("Issuing console command")

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	var reply issueReply
	if err := resp.JSON(&reply); err != nil {
		return nil, err
	}

	res := buildResponse(reply, params.ProcessResponses)
	c.logger.Debug().
		Str("response_key", res.LastResponseKey).
		Bool("keyword_detected", res.KeywordDetected).
		Msg("Console command issued")
	return res, nil
}

// GetResponse collects solicited messages queued under key by an earlier
// Issue.
func (c *Client) GetResponse(ctx context.Context, consoleName, key string, process bool) (*Response, error) {
	if strings.TrimSpace(key) == "" {
		return nil, zosmf.NewProtocolError("console get response", "response key is required")
	}

	req := &zosmf.Request{
		Method: http.MethodGet,
		Path:   consolePath(consoleName) + "/solmsgs/" + url.PathEscape(key),
	}

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to read console response %s: %w", key, err)
	}

	var reply issueReply
	if err := resp.JSON(&reply); err != nil {
		return nil, err
	}
	if reply.CmdResponseKey == "" {
		reply.CmdResponseKey = key
	}
	return buildResponse(reply, process), nil
}

func buildResponse(reply issueReply, process bool) *Response {
	res := &Response{
		Success:         true,
		CommandResponse: reply.CmdResponse,
		LastResponseKey: reply.CmdResponseKey,
		CmdResponseURL:  reply.CmdResponseURL,
		KeywordDetected: reply.SolKeyDetected != nil,
	}
	if text, ok := res.CommandResponse.Get(); ok && process {
		res.CommandResponse = optional.Some(NormalizeLineEndings(text))
	}
	return res
}

// NormalizeLineEndings turns CRLF and lone CR into LF and ensures the text
// ends with LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
