package pagewiretest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/vango-dev/pagewire/pkg/protocol"
)

// RequestBuilder allows fluent construction of test requests.
type RequestBuilder struct {
	method  string
	target  string
	body    io.Reader
	visit   bool
	version string
	partial *protocol.Partial
	header  http.Header
	cookies []*http.Cookie
}

// NewRequest starts a request for method and target.
func NewRequest(method, target string) *RequestBuilder {
	return &RequestBuilder{
		method: method,
		target: target,
		header: http.Header{},
	}
}

// Visit marks the request as a protocol visit.
func (b *RequestBuilder) Visit() *RequestBuilder {
	b.visit = true
	return b
}

// Version asserts an asset version. It implies Visit.
func (b *RequestBuilder) Version(v string) *RequestBuilder {
	b.visit = true
	b.version = v
	return b
}

// Partial requests only keys of component. It implies Visit.
func (b *RequestBuilder) Partial(component string, keys ...string) *RequestBuilder {
	b.visit = true
	if keys == nil {
		keys = []string{}
	}
	if b.partial == nil {
		b.partial = &protocol.Partial{}
	}
	b.partial.Component = component
	b.partial.Only = keys
	return b
}

// Except excludes keys from a partial reload of component. It implies Visit.
func (b *RequestBuilder) Except(component string, keys ...string) *RequestBuilder {
	b.visit = true
	if b.partial == nil {
		b.partial = &protocol.Partial{}
	}
	b.partial.Component = component
	b.partial.Except = keys
	return b
}

// Header sets an arbitrary header.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.header.Set(key, value)
	return b
}

// Cookie adds a cookie.
func (b *RequestBuilder) Cookie(c *http.Cookie) *RequestBuilder {
	b.cookies = append(b.cookies, c)
	return b
}

// Form sets an urlencoded body.
func (b *RequestBuilder) Form(encoded string) *RequestBuilder {
	b.body = strings.NewReader(encoded)
	b.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b
}

// JSON sets a JSON body.
func (b *RequestBuilder) JSON(body string) *RequestBuilder {
	b.body = strings.NewReader(body)
	b.header.Set("Content-Type", "application/json")
	return b
}

// Build returns the request.
func (b *RequestBuilder) Build() *http.Request {
	req := httptest.NewRequest(b.method, b.target, b.body)
	for k, vals := range b.header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if b.visit {
		protocol.SetVisitHeaders(req.Header, b.version, b.partial)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	return req
}

// Serve runs req through h and returns the recorded response.
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
