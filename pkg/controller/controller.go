// Package controller gives handlers a Kit of response helpers. There is no
// base controller type: handlers are plain functions that receive a Kit.
//
//	func ListUsers(k controller.Kit, store *Store) http.Handler {
//	    return k.Handle(func(w http.ResponseWriter, r *http.Request) error {
//	        users, err := store.All(r.Context())
//	        if err != nil {
//	            return err
//	        }
//	        return k.Render(w, r, "Users/Index", page.Props{"users": users})
//	    })
//	}
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/server"
)

// HTTPError is an error with the status it should be answered with.
type HTTPError struct {
	Status  int
	Message string // safe to show to clients
	Err     error
}

// Error returns the error message.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("controller: %d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("controller: %d %s", e.Status, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Errorf builds an HTTPError with a formatted client message.
func Errorf(status int, format string, args ...any) *HTTPError {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NotFound is a 404 HTTPError.
func NotFound(what string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: what + " not found"}
}

// Kit is the set of helpers handed to controllers.
type Kit struct {
	// JSON writes v as a JSON body with status.
	JSON func(w http.ResponseWriter, status int, v any)

	// Success writes {"success":true,"data":data} with 200.
	Success func(w http.ResponseWriter, data any)

	// Error answers err: an HTTPError keeps its status and message, anything
	// else is a 500 with a generic message.
	Error func(w http.ResponseWriter, r *http.Request, err error)

	// Render renders a page through the Pages bound to the request.
	Render func(w http.ResponseWriter, r *http.Request, component string, props page.Props, opts ...server.RenderOption) error

	// Redirect redirects through the Pages bound to the request.
	Redirect func(w http.ResponseWriter, r *http.Request, url string) error
}

// NewKit builds the default Kit.
func NewKit(logger *slog.Logger) Kit {
	if logger == nil {
		logger = slog.Default().With("component", "controller")
	}

	k := Kit{}
	k.JSON = writeJSON
	k.Success = func(w http.ResponseWriter, data any) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
	}
	k.Error = func(w http.ResponseWriter, r *http.Request, err error) {
		status, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		var he *HTTPError
		if errors.As(err, &he) {
			status, msg = he.Status, he.Message
		}
		if status >= 500 {
			logger.Error("request failed", "method", r.Method, "url", r.URL.RequestURI(), "error", err)
		}
		writeJSON(w, status, envelope{Success: false, Error: msg})
	}
	k.Render = func(w http.ResponseWriter, r *http.Request, component string, props page.Props, opts ...server.RenderOption) error {
		p, err := server.FromRequest(r)
		if err != nil {
			return err
		}
		return p.Render(w, r, component, props, opts...)
	}
	k.Redirect = func(w http.ResponseWriter, r *http.Request, url string) error {
		p, err := server.FromRequest(r)
		if err != nil {
			return err
		}
		p.Redirect(w, r, url)
		return nil
	}
	return k
}

// Handle adapts an error-returning handler, answering errors with k.Error.
func (k Kit) Handle(fn func(w http.ResponseWriter, r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			k.Error(w, r, err)
		}
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
