package tso

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/graceinfra/zosmf/internal/poll"
	"github.com/graceinfra/zosmf/internal/zosmf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
)

const tsoPath = "/zosmf/tsoApp/tso"

// Start parameters used when the caller leaves them unset.
const (
	DefaultProc  = "IZUFPROC"
	DefaultChset = "697"
	DefaultCpage = "1047"
	DefaultRows  = 24
	DefaultCols  = 80
	DefaultRsize = 4096

	DefaultMaxPings = 50
)

const (
	msgStartFailed = "failed to start TSO session"
	msgSendFailed  = "failed to send TSO command"
	msgPingFailed  = "failed to read TSO output"
	msgStopFailed  = "failed to stop TSO session"
)

// StartOptions are the logon parameters of the TSO address space. Zero
// values fall back to the Default* constants.
type StartOptions struct {
	Proc  string
	Chset string
	Cpage string
	Rows  int
	Cols  int
	Rsize int
}

func (o StartOptions) withDefaults() StartOptions {
	if o.Proc == "" {
		o.Proc = DefaultProc
	}
	if o.Chset == "" {
		o.Chset = DefaultChset
	}
	if o.Cpage == "" {
		o.Cpage = DefaultCpage
	}
	if o.Rows <= 0 {
		o.Rows = DefaultRows
	}
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.Rsize <= 0 {
		o.Rsize = DefaultRsize
	}
	return o
}

// StartQuery renders acct, proc, chset, cpage, rows, cols, rsize in that order.
func StartQuery(account string, opts StartOptions) zosmf.Query {
	opts = opts.withDefaults()
	return zosmf.Query{}.
		Add("acct", account).
		Add("proc", opts.Proc).
		Add("chset", opts.Chset).
		Add("cpage", opts.Cpage).
		Add("rows", strconv.Itoa(opts.Rows)).
		Add("cols", strconv.Itoa(opts.Cols)).
		Add("rsize", strconv.Itoa(opts.Rsize))
}

type Options struct {
	// MaxPings bounds how many times Send reads more output while waiting
	// for a prompt.
	MaxPings     int
	PingInterval time.Duration
	Clock        poll.Clock
}

type Option func(*Options)

func WithMaxPings(n int) Option {
	return func(o *Options) { o.MaxPings = n }
}

func WithPingInterval(d time.Duration) Option {
	return func(o *Options) { o.PingInterval = d }
}

func WithClock(c poll.Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// Client drives the z/OSMF TSO address space services. It keeps no session
// state of its own; every call takes the Session it operates on.
type Client struct {
	exec   zosmf.Executor
	opts   Options
	logger zerolog.Logger
}

func NewClient(exec zosmf.Executor, opts ...Option) *Client {
	o := Options{MaxPings: DefaultMaxPings, Clock: poll.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxPings < 1 {
		o.MaxPings = DefaultMaxPings
	}
	return &Client{
		exec:   exec,
		opts:   o,
		logger: log.With().Str("component", "tso").Logger(),
	}
}

func (c *Client) WithLogger(l zerolog.Logger) *Client {
	cp := *c
	cp.logger = l
	return &cp
}

func sessionPath(key string) string {
	return tsoPath + "/" + url.PathEscape(key)
}

func requireKey(op string, s *Session) error {
	if s == nil || s.ServletKey == "" {
		return zosmf.NewProtocolError(op, "no servlet key; start a TSO session first")
	}
	return nil
}

// Start logs on a new TSO address space. A response without a servlet key is
// a *zosmf.ProtocolError and no Session is returned.
func (c *Client) Start(ctx context.Context, account string, opts StartOptions) (*Session, error) {
	if strings.TrimSpace(account) == "" {
		return nil, zosmf.NewProtocolError("tso start", "account number is required")
	}

	req := &zosmf.Request{
		Method:      http.MethodPost,
		Path:        tsoPath,
		Query:       StartQuery(account, opts),
		ContentType: zosmf.ContentTypeJSON,
	}

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgStartFailed, err)
	}

	var body tsoResponse
	if err := resp.JSON(&body); err != nil {
		return nil, fmt.Errorf("%s: %w", msgStartFailed, err)
	}
	if body.ServletKey == "" {
		msg := msgStartFailed
		if sm := body.serverMessage(); sm != "" {
			msg += ": " + sm
		}
		return nil, &zosmf.ProtocolError{Op: "tso start", Message: msg, Payload: resp.Text()}
	}

	msgs, err := ClassifyAll(body.TsoData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgStartFailed, err)
	}

	c.logger.Info().
		Str("servlet_key", body.ServletKey).
		Bool("reused", body.Reused).
		Msg("Started TSO session")

	return &Session{
		ServletKey: body.ServletKey,
		QueueID:    body.QueueID,
		Version:    body.Ver,
		SessionID:  body.SessionID,
		Reused:     body.Reused,
		TimedOut:   body.Timeout,
		Messages:   msgs,
	}, nil
}

// Send writes command to the session and collects output until the address
// space prompts for more input. When MaxPings reads pass without a prompt the
// collected messages are returned with a *zosmf.TimeoutError.
func (c *Client) Send(ctx context.Context, s *Session, command string) ([]Message, error) {
	if err := requireKey("tso send", s); err != nil {
		return nil, err
	}

	req, err := zosmf.NewJSONRequest(http.MethodPut, sessionPath(s.ServletKey), sendBody(command))
	if err != nil {
		return nil, err
	}
	req.Query = zosmf.Query{}.Add("readReply", "false")

	logger := c.logger.With().Str("servlet_key", s.ServletKey).Logger()
	logger.Debug().Str("command", command).Msg("Sending TSO command")

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgSendFailed, err)
	}

	collected, err := c.decode(resp, s.ServletKey, msgSendFailed)
	if err != nil {
		return collected, err
	}
	if hasPrompt(collected) {
		return collected, nil
	}

	attempts, done, err := poll.Until(ctx, poll.Options{Interval: c.opts.PingInterval, MaxAttempts: c.opts.MaxPings, Clock: c.opts.Clock},
		func(ctx context.Context, attempt int) (bool, error) {
			msgs, err := c.Ping(ctx, s)
			collected = append(collected, msgs...)
			if err != nil {
				return false, err
			}
			return hasPrompt(msgs), nil
		})
	if err != nil {
		return collected, err
	}
	if !done {
		logger.Warn().Int("pings", attempts).Msg("No TSO prompt received")
		return collected, &zosmf.TimeoutError{Subject: "TSO session " + s.ServletKey, Target: "prompt", Attempts: attempts}
	}

	logger.Debug().Int("pings", attempts).Int("messages", len(collected)).Msg("TSO command complete")
	return collected, nil
}

// Ping reads whatever output the address space has queued.
func (c *Client) Ping(ctx context.Context, s *Session) ([]Message, error) {
	if err := requireKey("tso ping", s); err != nil {
		return nil, err
	}

	resp, err := c.exec.Execute(ctx, &zosmf.Request{Method: http.MethodGet, Path: sessionPath(s.ServletKey)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgPingFailed, err)
	}
	return c.decode(resp, s.ServletKey, msgPingFailed)
}

func (c *Client) decode(resp *zosmf.Response, key, failMsg string) ([]Message, error) {
	var body tsoResponse
	if err := resp.JSON(&body); err != nil {
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}

	msgs, err := ClassifyAll(body.TsoData)
	if err != nil {
		return msgs, fmt.Errorf("%s: %w", failMsg, err)
	}
	if body.Timeout {
		return msgs, fmt.Errorf("%w: servlet key %s", zosmf.ErrSessionTimedOut, key)
	}
	return msgs, nil
}

// Stop logs the session off. The response must echo a servlet key.
func (c *Client) Stop(ctx context.Context, s *Session) error {
	if err := requireKey("tso stop", s); err != nil {
		return err
	}

	resp, err := c.exec.Execute(ctx, &zosmf.Request{Method: http.MethodDelete, Path: sessionPath(s.ServletKey)})
	if err != nil {
		return fmt.Errorf("%s: %w", msgStopFailed, err)
	}

	var body tsoResponse
	if err := resp.JSON(&body); err != nil {
		return fmt.Errorf("%s: %w", msgStopFailed, err)
	}
	if body.ServletKey == "" {
		return &zosmf.ProtocolError{Op: "tso stop", Message: msgStopFailed, Payload: resp.Text()}
	}

	c.logger.Info().Str("servlet_key", s.ServletKey).Msg("Stopped TSO session")
	return nil
}

// IssueResult is the outcome of a one-shot TSO command.
type IssueResult struct {
	Session       *Session
	StartMessages []Message
	Messages      []Message
}

func (r *IssueResult) Text() string {
	return Text(r.Messages)
}

// Issue starts a session, sends command and stops the session again. Stop is
// attempted even when Send fails; both errors are reported.
func (c *Client) Issue(ctx context.Context, account, command string, opts StartOptions) (res *IssueResult, err error) {
	session, err := c.Start(ctx, account, opts)
	if err != nil {
		return nil, err
	}

	res = &IssueResult{Session: session, StartMessages: session.Messages}
	defer func() {
		// Stop on a fresh context so a cancelled caller still logs off.
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		err = multierr.Append(err, c.Stop(stopCtx, session))
	}()

	res.Messages, err = c.Send(ctx, session, command)
	return res, err
}
