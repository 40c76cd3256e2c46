// Package client is the pagewire client runtime: it executes visits against
// a pagewire server, keeps the navigation state of one mounted app, and
// hands each committed page to a rendering adapter.
//
// A Runtime boots from the first-load shell, then navigates with protocol
// visits:
//
//	rt := client.New(react.Client(modules), client.WithBaseURL("https://app.example"))
//	if err := rt.Boot(ctx, "/"); err != nil {
//	    return err
//	}
//	err := rt.Visit(ctx, "/users", client.Only("users"))
//
// # Navigation States
//
// A runtime is Idle until a visit starts (Visiting). A successful response
// commits the page (Succeeded) and a failure leaves the previous page in
// place (Failed); both return to Idle immediately and are reported to
// observers.
//
// # Last Visit Wins
//
// Starting a visit cancels the one in flight. Each visit carries a token and
// only the newest token may commit, so a slow response that arrives after a
// newer visit started is discarded.
//
// # Redirects
//
// 301, 302 and 303 responses are followed with a GET, 307 and 308 with the
// original method. A response carrying X-Pagewire-Location is a hard
// navigation: the runtime hands the location to its HardNavigator, which by
// default reloads the shell from the server.
package client
