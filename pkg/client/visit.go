package client

import (
	"net/http"
	"time"
)

// Visit is one navigation request. It is owned by the runtime while in
// flight and discarded when the visit completes, fails or is superseded.
type Visit struct {
	// ID identifies the visit in logs and errors.
	ID string

	// URL is the resolved absolute target.
	URL string

	// Method is the HTTP method.
	Method string

	// Headers are extra request headers.
	Headers http.Header

	// PartialComponent is the component a partial reload targets.
	PartialComponent string

	// PartialKeys are the props requested by a partial reload. Nil for a
	// full visit.
	PartialKeys []string

	// ExceptKeys are props a partial reload leaves out.
	ExceptKeys []string

	// RequestedAt is when the visit started.
	RequestedAt time.Time

	// Data is the request payload: a url.Values is sent as a query on GET
	// and as a form body otherwise; anything else is sent as JSON.
	Data any

	// Replace replaces the current history entry instead of pushing one.
	Replace bool

	// PreserveScroll keeps the scroll position after the visit.
	PreserveScroll bool

	version string // asset version asserted by the visit
	boot    bool   // bare first-load request for the HTML shell
}

// IsPartial reports whether the visit is a partial reload.
func (v *Visit) IsPartial() bool {
	return v.PartialComponent != "" && (v.PartialKeys != nil || v.ExceptKeys != nil)
}

// VisitOption configures a visit.
type VisitOption func(*Visit)

// WithMethod sets the HTTP method.
func WithMethod(method string) VisitOption {
	return func(v *Visit) { v.Method = method }
}

// WithData sets the request payload.
func WithData(data any) VisitOption {
	return func(v *Visit) { v.Data = data }
}

// WithHeader adds a request header.
func WithHeader(key, value string) VisitOption {
	return func(v *Visit) {
		if v.Headers == nil {
			v.Headers = http.Header{}
		}
		v.Headers.Add(key, value)
	}
}

// Only makes the visit a partial reload of the current component for keys.
// Only() with no keys requests nothing but the always-included props.
func Only(keys ...string) VisitOption {
	return func(v *Visit) {
		if keys == nil {
			keys = []string{}
		}
		v.PartialKeys = keys
	}
}

// Except makes the visit a partial reload without keys.
func Except(keys ...string) VisitOption {
	return func(v *Visit) {
		if keys == nil {
			keys = []string{}
		}
		v.ExceptKeys = keys
	}
}

// ForComponent names the component a partial reload targets. By default it
// is the component currently mounted.
func ForComponent(name string) VisitOption {
	return func(v *Visit) { v.PartialComponent = name }
}

// Replace replaces the current history entry.
func Replace() VisitOption {
	return func(v *Visit) { v.Replace = true }
}

// PreserveScroll keeps the current scroll position.
func PreserveScroll() VisitOption {
	return func(v *Visit) { v.PreserveScroll = true }
}

// Post is WithMethod(POST) plus WithData(data).
func Post(data any) VisitOption {
	return func(v *Visit) {
		v.Method = http.MethodPost
		v.Data = data
	}
}

// Put is WithMethod(PUT) plus WithData(data).
func Put(data any) VisitOption {
	return func(v *Visit) {
		v.Method = http.MethodPut
		v.Data = data
	}
}

// Delete is WithMethod(DELETE).
func Delete() VisitOption {
	return func(v *Visit) { v.Method = http.MethodDelete }
}

// followUp builds the visit that follows a redirect to target.
func (v *Visit) followUp(target string, status int) *Visit {
	next := *v
	next.URL = target
	next.PartialComponent = ""
	next.PartialKeys = nil
	next.ExceptKeys = nil
	if status != http.StatusTemporaryRedirect && status != http.StatusPermanentRedirect {
		next.Method = http.MethodGet
		next.Data = nil
	}
	return &next
}
