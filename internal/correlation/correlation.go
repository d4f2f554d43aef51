// Package correlation carries the per-request correlation ID from gin's
// request context down through provider calls to the upstream HTTP clients,
// so the same ID that was assigned or echoed on the inbound request is also
// forwarded as a header on every outbound upstream call.
package correlation

import (
	"context"
	"net/http"
)

// Header is the canonical outbound header name upstream clients set.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// WithID returns a context carrying id, readable back via FromContext.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation ID stored in ctx, or "" if none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RoundTripper forwards the correlation ID carried on a request's context as
// an outbound header. Zero value is ready to use; Next defaults to
// http.DefaultTransport when nil.
type RoundTripper struct {
	Next http.RoundTripper
}

func (t RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	if cid := FromContext(req.Context()); len(cid) != 0 {
		req = req.Clone(req.Context())
		req.Header.Set(Header, cid)
	}

	return next.RoundTrip(req)
}
