// Package protocol implements the pagewire visit negotiation.
//
// A client runtime marks its navigation requests with the X-Pagewire header.
// Requests without the marker are bare first loads and get a full HTML
// document; marked requests are protocol visits and get the page object as
// JSON.
//
// # Request Headers
//
//	X-Pagewire: true                     protocol visit marker
//	X-Pagewire-Version: a1b2c3           asset version the client was built against
//	X-Pagewire-Partial-Component: users  component the partial reload targets
//	X-Pagewire-Partial-Data: user,posts  prop keys to reload (may be empty)
//	X-Pagewire-Partial-Except: stats     prop keys to leave out
//
// # Response Headers
//
//	X-Pagewire: true                     set on page-object JSON responses
//	X-Pagewire-Location: /users          hard navigation: reload the browser here
//	Vary: X-Pagewire                     set on every page response
//
// # Negotiation
//
// Negotiate is a pure function of the request headers. A malformed marker
// fails open to Bare. A partial directive is only honoured for the
// component named in X-Pagewire-Partial-Component:
//
//	c := protocol.Negotiate(r.Header)
//	if sel := c.PartialFor("users/index").Selection(); sel != nil {
//	    props = props.Filter(sel, always)
//	}
//
// # Asset Versions
//
// CheckVersion compares the version a client asserts with the version the
// server was built with. On Mismatch the server answers a protocol visit with
// a hard navigation to the requested URL so the browser fetches a fresh shell.
package protocol
