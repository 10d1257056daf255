// internal/testutil/fakeapi.go
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/your-org/grocery-storefront/internal/infrastructure/api"
)

// Call is one request observed by FakeAPI
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// Responder produces the envelope data for a call, or an error
type Responder func(ctx context.Context, call Call) (interface{}, error)

// FakeAPI is an in-process api.Requester that records calls and answers from
// per-route responders. Unrouted calls fail as transport errors.
type FakeAPI struct {
	mu     sync.Mutex
	calls  []Call
	routes map[string]Responder
}

var _ api.Requester = (*FakeAPI)(nil)

// NewFakeAPI creates an empty fake
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{routes: map[string]Responder{}}
}

// On routes method+path to r, replacing any previous responder
func (f *FakeAPI) On(method, path string, r Responder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = r
}

// Calls returns every recorded call in order
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of recorded calls
func (f *FakeAPI) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// CallsTo returns the recorded calls for method+path
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls, keeping routes
func (f *FakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeAPI) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return f.handle(ctx, http.MethodGet, path, query, nil, out)
}

func (f *FakeAPI) Post(ctx context.Context, path string, body, out interface{}) error {
	return f.handle(ctx, http.MethodPost, path, nil, body, out)
}

func (f *FakeAPI) Put(ctx context.Context, path string, body, out interface{}) error {
	return f.handle(ctx, http.MethodPut, path, nil, body, out)
}

func (f *FakeAPI) Delete(ctx context.Context, path string, body, out interface{}) error {
	return f.handle(ctx, http.MethodDelete, path, nil, body, out)
}

func (f *FakeAPI) handle(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	call := Call{Method: method, Path: path, Query: query}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &api.TransportError{Op: "encode", Method: method, Path: path, Err: err}
		}
		if err := json.Unmarshal(raw, &call.Body); err != nil {
			return &api.TransportError{Op: "encode", Method: method, Path: path, Err: err}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	responder := f.routes[method+" "+path]
	f.mu.Unlock()

	if responder == nil {
		return &api.TransportError{Op: "send", Method: method, Path: path, Err: fmt.Errorf("no route for %s %s", method, path)}
	}

	data, err := responder(ctx, call)
	if err != nil {
		return err
	}
	if out == nil || data == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &api.TransportError{Op: "decode", Method: method, Path: path, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &api.TransportError{Op: "decode", Method: method, Path: path, Err: err}
	}
	return nil
}

// Reply returns a responder that always answers with data
func Reply(data interface{}) Responder {
	return func(context.Context, Call) (interface{}, error) {
		return data, nil
	}
}

// Reject returns a responder that answers {success:false, message}
func Reject(message string) Responder {
	return func(context.Context, Call) (interface{}, error) {
		return nil, &api.RejectionError{StatusCode: http.StatusBadRequest, Message: message}
	}
}

// Fail returns a responder that simulates a network failure
func Fail() Responder {
	return func(_ context.Context, call Call) (interface{}, error) {
		return nil, &api.TransportError{Op: "send", Method: call.Method, Path: call.Path, Err: errors.New("connection refused")}
	}
}
