package zosmf

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graceinfra/zosmf/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

// HTTPExecutor is the production Executor. It authenticates every request
// with the connection's basic credentials.
type HTTPExecutor struct {
	conn       types.Connection
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*HTTPExecutor)

func WithHTTPClient(c *http.Client) Option {
	return func(e *HTTPExecutor) { e.httpClient = c }
}

// WithTimeout sets the per-request timeout. A client given through
// WithHTTPClient is copied first, never modified.
func WithTimeout(d time.Duration) Option {
	return func(e *HTTPExecutor) { e.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *HTTPExecutor) { e.logger = l }
}

// WithBaseURL overrides the https://host:port URL derived from the connection.
// Tests point it at an httptest server.
func WithBaseURL(u string) Option {
	return func(e *HTTPExecutor) { e.baseURL = u }
}

func NewHTTPExecutor(conn types.Connection, opts ...Option) *HTTPExecutor {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !conn.VerifyTLS() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	e := &HTTPExecutor{
		conn:       conn,
		baseURL:    conn.BaseURL(),
		httpClient: &http.Client{Timeout: DefaultTimeout, Transport: transport},
		logger:     log.With().Str("component", "zosmf").Str("host", conn.Host).Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: DefaultTimeout, Transport: transport}
	}
	if e.timeout > 0 {
		client := *e.httpClient
		client.Timeout = e.timeout
		e.httpClient = &client
	}
	return e
}

func (e *HTTPExecutor) BaseURL() string {
	return e.baseURL
}

func (e *HTTPExecutor) Execute(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := req.URL(e.baseURL)

	reqLogger := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", method).
		Str("path", req.Path).
		Logger()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Cause: fmt.Errorf("create request: %w", err)}
	}

	httpReq.SetBasicAuth(e.conn.User, e.conn.Password)
	httpReq.Header.Set(csrfHeader, "true")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	reqLogger.Debug().Msg("zosmf: http request")
	start := time.Now()

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reqLogger.Debug().Err(err).Msg("zosmf: http request cancelled")
		} else {
			reqLogger.Error().Err(err).Msg("zosmf: http request failed")
		}
		return nil, &TransportError{Method: method, URL: target, Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, StatusCode: 0, Cause: fmt.Errorf("read response: %w", err)}
	}

	reqLogger.Debug().
		Int("status", httpResp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("zosmf: http response")

	resp := &Response{StatusCode: httpResp.StatusCode, Body: respBody}
	if err := CheckStatus(req, e.baseURL, resp); err != nil {
		reqLogger.Warn().Int("status", httpResp.StatusCode).Msg("zosmf: non-success status")
		return resp, err
	}
	return resp, nil
}
