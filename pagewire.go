// Package pagewire is the recommended import for applications:
//
//	import "github.com/vango-dev/pagewire"
//
// It re-exports the server-side API so a typical app needs one import plus
// a blank import of its adapter:
//
//	import _ "github.com/vango-dev/pagewire/pkg/adapter/react"
//
//	pages, err := pagewire.New(pagewire.DefaultConfig("react"))
//	pages.Share("user", pagewire.Func(currentUser))
//
//	kit := pagewire.NewKit(nil)
//	mux.Handle("GET /users", pages.Handler(kit.Handle(func(w http.ResponseWriter, r *http.Request) error {
//	    return kit.Render(w, r, "users/index", pagewire.Props{
//	        "users": listUsers(),
//	        "stats": pagewire.Lazy(countUsers),
//	    })
//	})))
package pagewire

import (
	"github.com/vango-dev/pagewire/pkg/controller"
	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/server"
)

// =============================================================================
// Pages (re-export from pkg/server)
// =============================================================================

// Pages renders page objects and enforces the asset version.
type Pages = server.Pages

// Config configures Pages.
type Config = server.Config

// RenderOption tunes a single Render call.
type RenderOption = server.RenderOption

// New creates Pages. It fails when the adapter is not registered.
var New = server.New

// DefaultConfig returns a Config for the named adapter.
var DefaultConfig = server.DefaultConfig

// FromRequest returns the Pages bound to a request by Pages.Handler.
var FromRequest = server.FromRequest

// WithProps attaches request-scoped props merged into every render.
var WithProps = server.WithProps

// Always adds keys that survive partial reloads for one render.
var Always = server.Always

// WithTitle overrides the document title of one first load.
var WithTitle = server.WithTitle

// =============================================================================
// Props (re-export from pkg/page)
// =============================================================================

// Page is the page object sent to clients.
type Page = page.Page

// Props maps prop names to values.
type Props = page.Props

// Evaluator computes a prop value per request.
type Evaluator = page.Evaluator

// Func evaluates a prop on every render that includes it.
var Func = page.Func

// Lazy evaluates a prop only when a partial reload asks for it.
var Lazy = page.Lazy

// =============================================================================
// Controllers (re-export from pkg/controller)
// =============================================================================

// Kit is the set of helpers handed to controllers.
type Kit = controller.Kit

// NewKit builds the default Kit.
var NewKit = controller.NewKit

// HTTPError is an error with an HTTP status.
type HTTPError = controller.HTTPError

// Errorf creates an HTTPError.
var Errorf = controller.Errorf
