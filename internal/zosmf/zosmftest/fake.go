// Package zosmftest provides a scripted zosmf.Executor for tests.
package zosmftest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/graceinfra/zosmf/internal/zosmf"
)

const BaseURL = "https://zos.test:443"

// Reply is one canned answer. Err short-circuits Status/Body.
type Reply struct {
	Status int
	Body   string
	Err    error
}

// JSON builds a 200 reply from v.
func JSON(v any) Reply {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("zosmftest: marshal reply: %v", err))
	}
	return Reply{Status: 200, Body: string(data)}
}

func Text(body string) Reply {
	return Reply{Status: 200, Body: body}
}

func Status(code int, body string) Reply {
	return Reply{Status: code, Body: body}
}

// Handler answers a single request.
type Handler func(req *zosmf.Request) Reply

// Executor records every request and answers through Handler. Status codes
// outside 100-299 become *zosmf.TransportError exactly like HTTPExecutor.
type Executor struct {
	mu       sync.Mutex
	handler  Handler
	requests []zosmf.Request
}

func New(h Handler) *Executor {
	return &Executor{handler: h}
}

// Sequence answers requests with replies in order and fails the request once
// the script is exhausted.
func Sequence(replies ...Reply) *Executor {
	var mu sync.Mutex
	next := 0
	return New(func(req *zosmf.Request) Reply {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(replies) {
			return Reply{Err: fmt.Errorf("zosmftest: unexpected request %s %s", req.Method, req.Path)}
		}
		r := replies[next]
		next++
		return r
	})
}

func (e *Executor) Execute(ctx context.Context, req *zosmf.Request) (*zosmf.Response, error) {
	e.mu.Lock()
	e.requests = append(e.requests, *req)
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &zosmf.TransportError{Method: req.Method, URL: req.URL(BaseURL), Cause: err}
	}

	reply := e.handler(req)
	if reply.Err != nil {
		return nil, &zosmf.TransportError{Method: req.Method, URL: req.URL(BaseURL), Cause: reply.Err}
	}

	resp := &zosmf.Response{StatusCode: reply.Status, Body: []byte(reply.Body)}
	if err := zosmf.CheckStatus(req, BaseURL, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Requests returns a copy of every request seen so far.
func (e *Executor) Requests() []zosmf.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]zosmf.Request(nil), e.requests...)
}

func (e *Executor) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}
