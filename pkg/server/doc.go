// Package server connects application handlers to the pagewire protocol.
//
// Pages wraps routes with the adapter's negotiating middleware and the asset
// version guard. Handlers then answer with one call:
//
//	pages, err := server.New(server.DefaultConfig("react"))
//	if err != nil {
//	    log.Fatal(err) // unknown adapter is a startup error
//	}
//	pages.Share("app", map[string]any{"name": "demo"})
//
//	mux.Handle("/", pages.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    pages.Render(w, r, "landing", page.Props{"greeting": "hi"})
//	})))
//
// Render writes the HTML shell for a first load and the JSON page object for
// a protocol visit. Partial reloads are narrowed to the requested props plus
// the always-included ones. A visit built against an older asset version
// never reaches the handler: it is answered with a hard navigation so the
// browser fetches the new bundles.
//
// Redirect picks 303 for anything but GET and HEAD so a client always
// follows up with a GET. Location leaves the protocol entirely, for external
// sites or pages the client runtime cannot render.
package server
