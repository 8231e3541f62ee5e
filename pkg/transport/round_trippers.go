package transport

import (
	"context"
	"net/http"
)

// ModifyHeadersOption is a function type used to modify HTTP headers in a request.
// It takes a function that sets a header key and value, allowing for flexible header modification.
type ModifyHeadersOption func(func(key string, value string))

type modifyHeadersRoundTripper struct {
	roundTripper http.RoundTripper
	options      []ModifyHeadersOption
}

// NewModifyHeadersRoundTripper will add headers to a request.
func NewModifyHeadersRoundTripper(rt http.RoundTripper, opts ...ModifyHeadersOption) http.RoundTripper {
	return &modifyHeadersRoundTripper{roundTripper: rt, options: opts}
}

func (rt *modifyHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for _, opt := range rt.options {
		opt(req.Header.Set)
	}
	return rt.roundTripper.RoundTrip(req)
}

// WithUserAgent is a functional option to set the HTTP client user agent.
func WithUserAgent(userAgent string) ModifyHeadersOption {
	return WithHeader("User-Agent", userAgent)
}

// WithAcceptLanguage is a functional option to set the HTTP client accept language.
func WithAcceptLanguage(acceptLanguage string) ModifyHeadersOption {
	return WithHeader("Accept-Language", acceptLanguage)
}

// WithHeader is a functional option to set an arbitrary header.
func WithHeader(key, value string) ModifyHeadersOption {
	return func(f func(key string, value string)) {
		f(key, value)
	}
}

type contextRoundTripper struct {
	roundTripper http.RoundTripper
	ctx          context.Context
}

// NewContextRoundTripper binds every request to ctx, so that clients which build their own requests
// without a context are still cancelled with the caller.
func NewContextRoundTripper(ctx context.Context, rt http.RoundTripper) http.RoundTripper {
	return &contextRoundTripper{roundTripper: rt, ctx: ctx}
}

func (rt *contextRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.roundTripper.RoundTrip(req.WithContext(rt.ctx))
}

type statusRecorderRoundTripper struct {
	roundTripper http.RoundTripper
	record       func(statusCode int)
}

// NewStatusRecorderRoundTripper calls record with the status code of every response.
func NewStatusRecorderRoundTripper(rt http.RoundTripper, record func(statusCode int)) http.RoundTripper {
	return &statusRecorderRoundTripper{roundTripper: rt, record: record}
}

func (rt *statusRecorderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := rt.roundTripper.RoundTrip(req)
	if err == nil && resp != nil {
		rt.record(resp.StatusCode)
	}
	return resp, err
}
