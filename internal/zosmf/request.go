package zosmf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"

	// csrfHeader must accompany every z/OSMF REST request.
	csrfHeader = "X-CSRF-ZOSMF-HEADER"
)

// Executor issues one request against a z/OSMF endpoint. Implementations
// return *TransportError for I/O failures and for statuses outside 100-299.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// QueryParam is a single key=value pair.
type QueryParam struct {
	Key   string
	Value string
}

// Query keeps parameters in insertion order. z/OSMF does not care, but the
// TSO start URL is compared literally in logs and tests.
type Query []QueryParam

func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (q Query) Encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

type Request struct {
	Method      string
	Path        string
	Query       Query
	Headers     map[string]string
	Body        []byte
	ContentType string
}

// NewJSONRequest marshals body (when non-nil) and sets the JSON content type.
func NewJSONRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: method, Path: path, ContentType: ContentTypeJSON}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// URL joins base with the request path and query.
func (r *Request) URL(base string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ProtocolError{Op: "decode response", Message: "unexpected response structure", Payload: string(r.Body), Cause: err}
	}
	return nil
}

// CheckStatus converts a status outside 100-299 into a *TransportError.
func CheckStatus(req *Request, base string, resp *Response) error {
	if resp.StatusCode >= 100 && resp.StatusCode < 300 {
		return nil
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	return &TransportError{
		Method:     method,
		URL:        req.URL(base),
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}
